// Package store provides data access for the two users table shapes. All
// methods return explicit errors so callers decide whether a failure is
// surfaced, retried, or deliberately ignored.
package store

import (
	"context"
	"errors"

	"github.com/fuomag9/login-gateway/internal/models"
)

// ErrNotFound is returned when no record matches. It is a normal outcome,
// not a failure.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateUsername is returned when a username is already taken.
var ErrDuplicateUsername = errors.New("username already exists")

// TokenStore persists OAuth token records (oauth variant).
type TokenStore interface {
	Insert(ctx context.Context, rec *models.TokenRecord) error
	ByAccessToken(ctx context.Context, accessToken string) (*models.TokenRecord, error)
	ByRefreshToken(ctx context.Context, refreshToken string) (*models.TokenRecord, error)
	ByUserID(ctx context.Context, id int) (*models.TokenRecord, error)
	Update(ctx context.Context, rec *models.TokenRecord) error
	UpdateAccessToken(ctx context.Context, id int, accessToken string) error
}

// CredentialStore persists local username/password credentials (password
// variant).
type CredentialStore interface {
	Create(ctx context.Context, username, passwordDigest string) error
	ByUsername(ctx context.Context, username string) (*models.Credential, error)
}
