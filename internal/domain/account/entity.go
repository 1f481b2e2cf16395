package account

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates no account matches the given identifier.
	ErrAccountNotFound = errors.New("no account found for identifier")
	// ErrInvalidCredentials indicates the password did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken signals a duplicate username registration.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken signals a duplicate email registration.
	ErrEmailTaken = errors.New("email already taken")
	// ErrBothTaken signals both username and email are already registered.
	ErrBothTaken = errors.New("username and email already taken")
)

// Account models the credential entity persisted in storage. PasswordHash is
// the opaque output of the password hasher, never the raw secret.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Credentials captures raw login input. It is never persisted.
type Credentials struct {
	Identifier string
	Secret     string
}

// Conflict reports which unique fields a prospective registration collides on.
type Conflict struct {
	UsernameTaken bool
	EmailTaken    bool
}

// Err resolves the conflict into the taxonomy error, preferring the combined
// case, then email, then username. Returns nil when nothing is taken.
func (c Conflict) Err() error {
	switch {
	case c.UsernameTaken && c.EmailTaken:
		return ErrBothTaken
	case c.EmailTaken:
		return ErrEmailTaken
	case c.UsernameTaken:
		return ErrUsernameTaken
	default:
		return nil
	}
}
