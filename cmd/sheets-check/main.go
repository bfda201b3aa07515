// Command sheets-check probes the configured Google Sheet: it prints the
// header row and a row count so credential and range problems surface
// before the dashboard or worker run.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"spendview/internal/cli"
	"spendview/internal/core"
	"spendview/internal/log"
	googlesource "spendview/internal/source/google"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentSource)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := googlesource.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	headers, rowCount, err := client.Headers(ctx)
	if err != nil {
		logger.Error("Failed to read sheet", "error", err)
		os.Exit(1)
	}

	fmt.Println("Connection OK")
	fmt.Printf("Rows (excluding header): %d\n", rowCount)
	fmt.Println("Headers:")
	for _, h := range headers {
		fmt.Println("  - " + h)
	}

	rows, err := client.LoadExpenses(ctx)
	if err != nil {
		logger.Error("Failed to parse sheet rows", "error", err)
		os.Exit(1)
	}

	cleaned := core.Clean(rows)
	fmt.Printf("\nParsed %d rows, %d after cleaning\n", len(rows), len(cleaned))
	if len(cleaned) > 0 {
		first, last := cleaned[0], cleaned[len(cleaned)-1]
		fmt.Printf("Date range: %s to %s\n", first.Date.Format("2006-01-02"), last.Date.Format("2006-01-02"))
		fmt.Printf("Sample: %s  %s  %s\n", first.Date.Format("2006-01-02"), first.Category, core.FormatUSD(first.Spend().Cents))
	}
}
