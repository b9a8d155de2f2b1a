package models

import "time"

// TokenRecord represents one user's current OAuth grant. There is at most
// one record per user; refreshes overwrite it in place.
type TokenRecord struct {
	ID           int       `json:"id" gorm:"primaryKey;autoIncrement"`
	AccessToken  string    `json:"-" gorm:"uniqueIndex;not null"`
	RefreshToken string    `json:"-" gorm:"uniqueIndex;not null"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"not null"`
}

// TableName specifies the table name for TokenRecord
func (TokenRecord) TableName() string {
	return "users"
}

// Expired reports whether the access token must no longer be used.
func (t *TokenRecord) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
