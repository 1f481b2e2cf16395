package login

import (
	"context"
	"strings"

	domain "authbox/backend/internal/domain/account"
	"authbox/backend/internal/validation"
)

// PasswordHasher verifies a raw secret against a stored hash.
type PasswordHasher interface {
	Verify(secret, hashed string) (bool, error)
}

// TokenIssuer mints signed bearer tokens for a subject.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// Credentials is the login payload. User carries a username or an email and
// follows the same shape rule as a username.
type Credentials struct {
	User     string `json:"user" validate:"required,min=4"`
	Password string `json:"password" validate:"required"`
}

// Service orchestrates authentication.
type Service struct {
	accounts domain.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
}

// NewService constructs an authentication service.
func NewService(accounts domain.Repository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Authenticate validates the credential shape, looks up the account by
// identifier, verifies the password, and issues a token with the account's
// email as subject. An unknown identifier yields ErrAccountNotFound, kept
// distinct from the ErrInvalidCredentials mismatch outcome.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (string, error) {
	creds.User = strings.TrimSpace(creds.User)

	if err := validation.Check(creds); err != nil {
		return "", err
	}

	acc, err := s.accounts.FindByIdentifier(ctx, creds.User)
	if err != nil {
		return "", err
	}

	ok, err := s.hasher.Verify(creds.Password, acc.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrInvalidCredentials
	}

	return s.tokens.Issue(acc.Email)
}
