package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fuomag9/login-gateway/internal/models"
)

type credentialStore struct {
	db *gorm.DB
}

// NewCredentialStore creates a GORM-backed credential store
func NewCredentialStore(db *gorm.DB) CredentialStore {
	return &credentialStore{db: db}
}

func (s *credentialStore) Create(ctx context.Context, username, passwordDigest string) error {
	cred := models.Credential{
		Username: username,
		Password: passwordDigest,
	}
	err := s.db.WithContext(ctx).Create(&cred).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

func (s *credentialStore) ByUsername(ctx context.Context, username string) (*models.Credential, error) {
	var cred models.Credential
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query credential: %w", err)
	}
	return &cred, nil
}
