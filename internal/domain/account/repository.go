package account

import "context"

// Repository defines persistence operations for accounts. Implementations
// must enforce username and email uniqueness at the storage layer; the
// orchestration-level conflict probe is only a courtesy check.
type Repository interface {
	// FindByIdentifier matches the identifier against username or email,
	// exact and case-sensitive. Returns ErrAccountNotFound when absent.
	FindByIdentifier(ctx context.Context, identifier string) (*Account, error)
	// FindConflicts probes both unique fields in a single round trip.
	FindConflicts(ctx context.Context, username, email string) (Conflict, error)
	// Insert persists a new account. A uniqueness violation is reported as
	// ErrUsernameTaken or ErrEmailTaken even when the caller pre-checked.
	Insert(ctx context.Context, acc *Account) error
}
