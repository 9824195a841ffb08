package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrUnauthorized = errors.New("unauthorized")

// Authenticator checks operator credentials. Implementations return
// ErrUnauthorized for a bad username or password.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) error
}

// StaticAuthenticator accepts a single configured operator account.
type StaticAuthenticator struct {
	username string
	hash     []byte
}

// NewStaticAuthenticator builds an authenticator from either a bcrypt hash or
// a plaintext password. The hash wins when both are set.
func NewStaticAuthenticator(username, password, passwordHash string) (*StaticAuthenticator, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}

	var hash []byte
	switch {
	case passwordHash != "":
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid password hash: %w", err)
		}
		hash = []byte(passwordHash)
	case password != "":
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		hash = h
	default:
		return nil, errors.New("password or password hash is required")
	}

	return &StaticAuthenticator{username: username, hash: hash}, nil
}

func (a *StaticAuthenticator) Authenticate(ctx context.Context, username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	// always run bcrypt so a wrong username costs the same as a wrong password
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if !userOK || passErr != nil {
		return ErrUnauthorized
	}
	return nil
}
