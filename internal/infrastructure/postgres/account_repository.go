package postgres

import (
	"context"
	"errors"
	"strings"

	domain "authbox/backend/internal/domain/account"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountRepository persists accounts in PostgreSQL. All statements use
// positional parameters; input is never interpolated into query text.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository constructs a repository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Insert persists a new account record. The unique constraints on username
// and email are the authoritative uniqueness check; a violation here is
// mapped back into the conflict taxonomy even when the caller pre-checked.
func (r *AccountRepository) Insert(ctx context.Context, acc *domain.Account) error {
	const query = `
INSERT INTO accounts (id, username, email, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err := r.pool.Exec(ctx, query,
		acc.ID,
		acc.Username,
		acc.Email,
		acc.PasswordHash,
		acc.CreatedAt,
	)
	if err != nil {
		if conflictErr := uniqueViolation(err); conflictErr != nil {
			return conflictErr
		}
		return err
	}
	return nil
}

// FindByIdentifier fetches an account whose username or email equals the
// identifier. Matching is exact and case-sensitive.
func (r *AccountRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	const query = `
SELECT id, username, email, password_hash, created_at
FROM accounts WHERE username = $1 OR email = $1
`
	row := r.pool.QueryRow(ctx, query, identifier)
	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return acc, nil
}

// FindConflicts probes both unique fields in a single round trip.
func (r *AccountRepository) FindConflicts(ctx context.Context, username, email string) (domain.Conflict, error) {
	const query = `
SELECT username, email FROM accounts WHERE username = $1 OR email = $2
`
	rows, err := r.pool.Query(ctx, query, username, email)
	if err != nil {
		return domain.Conflict{}, err
	}
	defer rows.Close()

	var conflict domain.Conflict
	for rows.Next() {
		var existingUsername, existingEmail string
		if err := rows.Scan(&existingUsername, &existingEmail); err != nil {
			return domain.Conflict{}, err
		}
		if existingUsername == username {
			conflict.UsernameTaken = true
		}
		if existingEmail == email {
			conflict.EmailTaken = true
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Conflict{}, err
	}
	return conflict, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// uniqueViolation maps a SQLSTATE 23505 error onto the conflict taxonomy
// using the violated constraint name, or returns nil for any other error.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return domain.ErrEmailTaken
	case strings.Contains(pgErr.ConstraintName, "username"):
		return domain.ErrUsernameTaken
	default:
		return domain.ErrUsernameTaken
	}
}
