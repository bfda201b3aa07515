// Command hashpw generates a bcrypt hash for AUTH_PASSWORD_HASH. The
// password is read from stdin unless -password is given.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"spendview/internal/auth"
)

func main() {
	passwordFlag := flag.String("password", "", "password to hash (prompts when omitted)")
	flag.Parse()

	password := *passwordFlag
	if password == "" {
		var err error
		password, err = readPassword()
		if err != nil {
			fmt.Fprintln(os.Stderr, "read password:", err)
			os.Exit(1)
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	fmt.Println(hash)
	fmt.Fprintln(os.Stderr, "\nSet this in your environment:")
	fmt.Fprintf(os.Stderr, "  AUTH_PASSWORD_HASH='%s'\n", hash)
}

// readPassword prompts without echo on a terminal, falling back to a plain
// stdin read when piped.
func readPassword() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
