// Package session signs and verifies the opaque identity claim carried in
// the browser cookie. Validity is entirely determined by the signature and
// expiry; nothing is stored server-side.
package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of a signed session claim.
const DefaultTTL = 2 * time.Hour

// Signer issues and verifies HS256-signed session claims.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner creates a session signer with the given secret key and TTL
func NewSigner(secret []byte, ttl time.Duration) *Signer {
	return &Signer{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the claim lifetime, which also bounds the cookie max-age.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a claim binding userID to the current time
func (s *Signer) Issue(userID int) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session claim: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the claimed user id
func (s *Signer) Verify(tokenString string) (int, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid session claim: %w", err)
	}

	claims := token.Claims.(*jwt.RegisteredClaims)
	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim: %w", err)
	}
	return userID, nil
}
