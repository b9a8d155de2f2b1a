package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fuomag9/login-gateway/internal/models"
)

type tokenStore struct {
	db *gorm.DB
}

// NewTokenStore creates a GORM-backed token store
func NewTokenStore(db *gorm.DB) TokenStore {
	return &tokenStore{db: db}
}

func (s *tokenStore) Insert(ctx context.Context, rec *models.TokenRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("insert token record: %w", err)
	}
	return nil
}

func (s *tokenStore) ByAccessToken(ctx context.Context, accessToken string) (*models.TokenRecord, error) {
	return s.first(ctx, "access_token = ?", accessToken)
}

func (s *tokenStore) ByRefreshToken(ctx context.Context, refreshToken string) (*models.TokenRecord, error) {
	return s.first(ctx, "refresh_token = ?", refreshToken)
}

func (s *tokenStore) ByUserID(ctx context.Context, id int) (*models.TokenRecord, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *tokenStore) first(ctx context.Context, query string, arg interface{}) (*models.TokenRecord, error) {
	var rec models.TokenRecord
	err := s.db.WithContext(ctx).Where(query, arg).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query token record: %w", err)
	}
	return &rec, nil
}

func (s *tokenStore) Update(ctx context.Context, rec *models.TokenRecord) error {
	result := s.db.WithContext(ctx).Model(&models.TokenRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]interface{}{
			"access_token":  rec.AccessToken,
			"refresh_token": rec.RefreshToken,
			"expires_at":    rec.ExpiresAt,
		})
	if result.Error != nil {
		return fmt.Errorf("update token record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *tokenStore) UpdateAccessToken(ctx context.Context, id int, accessToken string) error {
	result := s.db.WithContext(ctx).Model(&models.TokenRecord{}).
		Where("id = ?", id).
		Update("access_token", accessToken)
	if result.Error != nil {
		return fmt.Errorf("update access token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
