package signup

import (
	"context"
	"strings"
	"time"

	domain "authbox/backend/internal/domain/account"
	"authbox/backend/internal/validation"

	"github.com/google/uuid"
)

// PasswordHasher derives one-way salted hashes of raw secrets.
type PasswordHasher interface {
	Hash(secret string) (string, error)
}

// Input is the registration payload. Username is trimmed before validation.
type Input struct {
	Username string `json:"username" validate:"required,min=4"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Service orchestrates account registration.
type Service struct {
	accounts domain.Repository
	hasher   PasswordHasher
	nowFunc  func() time.Time
}

// NewService constructs a registration service.
func NewService(accounts domain.Repository, hasher PasswordHasher) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		nowFunc:  time.Now,
	}
}

// Register validates the input shape, probes for conflicts, hashes the
// password, and persists the new account. Validation violations are returned
// together as *validation.Error; conflicts as the domain taxonomy errors.
// The conflict probe is a courtesy only: a concurrent duplicate that slips
// past it is still rejected by the store's unique constraints and surfaces
// as the same conflict error.
func (s *Service) Register(ctx context.Context, input Input) error {
	input.Username = strings.TrimSpace(input.Username)

	if err := validation.Check(input); err != nil {
		return err
	}

	conflict, err := s.accounts.FindConflicts(ctx, input.Username, input.Email)
	if err != nil {
		return err
	}
	if conflictErr := conflict.Err(); conflictErr != nil {
		return conflictErr
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return err
	}

	acc := &domain.Account{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashed,
		CreatedAt:    s.nowFunc().UTC(),
	}

	return s.accounts.Insert(ctx, acc)
}
