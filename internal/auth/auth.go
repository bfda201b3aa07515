// Package auth implements the dashboard's optional single-user login:
// bcrypt password verification and in-memory sessions.
package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Authenticator verifies the configured username and bcrypt password hash.
type Authenticator struct {
	username     string
	passwordHash []byte
}

func NewAuthenticator(username, passwordHash string) *Authenticator {
	return &Authenticator{
		username:     username,
		passwordHash: []byte(passwordHash),
	}
}

// Verify checks the credentials. Both checks always run so a bad username
// costs the same as a bad password.
func (a *Authenticator) Verify(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword produces a bcrypt hash suitable for AUTH_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
