// Package hash provides one-way salted hashing of account secrets.
package hash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrHashFormat indicates a stored hash is structurally invalid.
	ErrHashFormat = errors.New("malformed password hash")
	// ErrCryptoUnavailable indicates hashing itself failed.
	ErrCryptoUnavailable = errors.New("password hashing unavailable")
)

// Bcrypt hashes secrets with bcrypt. Each hash embeds its own cost and a
// fresh random salt, so two hashes of the same secret never compare equal.
type Bcrypt struct {
	cost int
}

// NewBcrypt constructs a hasher with the default cost.
func NewBcrypt() *Bcrypt {
	return &Bcrypt{cost: bcrypt.DefaultCost}
}

// Hash derives a salted one-way hash of the secret.
func (h *Bcrypt) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", errors.Join(ErrCryptoUnavailable, err)
	}
	return string(hashed), nil
}

// Verify recomputes the hash using the parameters embedded in hashed and
// compares digests in constant time. A mismatch returns (false, nil); a
// structurally invalid hash returns ErrHashFormat.
func (h *Bcrypt) Verify(secret, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, errors.Join(ErrHashFormat, err)
	}
}
