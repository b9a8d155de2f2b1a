// Package accounts implements the local username/password variant: a
// stateless credential check with no lifecycle.
package accounts

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/fuomag9/login-gateway/internal/store"
)

// Service registers and authenticates local credentials.
type Service struct {
	store store.CredentialStore
}

// NewService creates an account service over the credential store
func NewService(s store.CredentialStore) *Service {
	return &Service{store: s}
}

// Register creates a new credential. Returns false without error when the
// username is already taken (fail closed, store unchanged).
func (s *Service) Register(ctx context.Context, username, password string) (bool, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	err = s.store.Create(ctx, username, string(digest))
	if errors.Is(err, store.ErrDuplicateUsername) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create credential: %w", err)
	}
	return true, nil
}

// Login verifies a password against the stored digest and returns the user
// id on success. The lookup is by username alone; the digest comparison
// happens here, constant-time over the derived key, so no password material
// ever reaches the SQL layer.
func (s *Service) Login(ctx context.Context, username, password string) (int, bool, error) {
	cred, err := s.store.ByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(password)); err != nil {
		return 0, false, nil
	}
	return cred.ID, true, nil
}
