package token

import (
	"errors"
	"time"

	usecase "authbox/backend/internal/usecase/login"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager issues signed bearer tokens. The signing secret is process-wide
// configuration loaded once at startup.
type JWTManager struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTManager constructs a manager with the provided secret and expiration.
func NewJWTManager(secret string, expiration time.Duration, issuer string) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		expiration: expiration,
		issuer:     issuer,
	}
}

// Ensure JWTManager implements the TokenIssuer interface.
var _ usecase.TokenIssuer = (*JWTManager)(nil)

// Issue creates a signed HS256 token for the subject, valid for the
// configured duration from now.
func (m *JWTManager) Issue(subject string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Parse verifies the signature and expiry of a token and returns its subject
// and expiry time.
func (m *JWTManager) Parse(tokenString string) (string, time.Time, error) {
	var claims jwt.RegisteredClaims
	t, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return "", time.Time{}, err
	}
	if !t.Valid || claims.ExpiresAt == nil {
		return "", time.Time{}, errors.New("invalid token claims")
	}
	return claims.Subject, claims.ExpiresAt.Time, nil
}
