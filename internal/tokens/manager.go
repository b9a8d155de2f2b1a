// Package tokens owns the token lifecycle: storing, looking up, and
// transparently refreshing OAuth token pairs tied to a user identity.
package tokens

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fuomag9/login-gateway/internal/models"
	"github.com/fuomag9/login-gateway/internal/provider"
	"github.com/fuomag9/login-gateway/internal/store"
)

// Exchanger is the slice of the provider client the manager needs to renew
// an expired grant.
type Exchanger interface {
	ExchangeRefreshToken(ctx context.Context, refreshToken string) (*provider.TokenGrant, error)
}

// Manager applies the expiry and refresh policy on top of the token store.
// Refresh is best-effort: a failed refresh is logged and the stale record is
// served rather than failing the request.
type Manager struct {
	store     store.TokenStore
	exchanger Exchanger
	group     singleflight.Group
	now       func() time.Time
}

// NewManager creates a token lifecycle manager
func NewManager(s store.TokenStore, e Exchanger) *Manager {
	return &Manager{
		store:     s,
		exchanger: e,
		now:       time.Now,
	}
}

// StoreNewTokens persists a freshly exchanged token pair. The user identity
// is not known yet at this point; the record is looked up later by access
// token.
func (m *Manager) StoreNewTokens(ctx context.Context, accessToken, refreshToken string, expiresIn int) error {
	rec := &models.TokenRecord{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    m.expiry(expiresIn),
	}

	if err := m.store.Insert(ctx, rec); err != nil {
		return fmt.Errorf("store new tokens: %w", err)
	}
	return nil
}

// UserIDByAccessToken resolves the user owning accessToken, refreshing the
// grant first if it has expired. Returns store.ErrNotFound when no record
// matches.
func (m *Manager) UserIDByAccessToken(ctx context.Context, accessToken string) (int, error) {
	rec, err := m.store.ByAccessToken(ctx, accessToken)
	if err != nil {
		return 0, err
	}
	m.ensureFresh(ctx, rec)
	return rec.ID, nil
}

// UserIDByRefreshToken resolves the user owning refreshToken. Same contract
// as UserIDByAccessToken.
func (m *Manager) UserIDByRefreshToken(ctx context.Context, refreshToken string) (int, error) {
	rec, err := m.store.ByRefreshToken(ctx, refreshToken)
	if err != nil {
		return 0, err
	}
	m.ensureFresh(ctx, rec)
	return rec.ID, nil
}

// TokensForUser returns the user's token record, refreshed first when
// expired.
func (m *Manager) TokensForUser(ctx context.Context, userID int) (*models.TokenRecord, error) {
	rec, err := m.store.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	m.ensureFresh(ctx, rec)
	return rec, nil
}

// UpdateAccessToken overwrites the access token without touching the expiry.
// Callers own the expiry bookkeeping in this path.
func (m *Manager) UpdateAccessToken(ctx context.Context, userID int, newAccessToken string) error {
	return m.store.UpdateAccessToken(ctx, userID, newAccessToken)
}

// ensureFresh refreshes rec in place when it has expired and reports whether
// a refreshed record was observed. Concurrent calls for the same user share
// a single refresh exchange; the refresh token may be single-use on the
// provider side, so duplicate exchanges must never race.
//
// Failures are logged and swallowed. Authentication degrades to "treat as
// still logged in" with a stale token rather than failing the request.
func (m *Manager) ensureFresh(ctx context.Context, rec *models.TokenRecord) bool {
	if !rec.Expired(m.now()) {
		return false
	}

	v, err, _ := m.group.Do(strconv.Itoa(rec.ID), func() (interface{}, error) {
		// Re-read inside the flight: a request that raced us past the
		// expiry check may have refreshed already.
		current, err := m.store.ByUserID(ctx, rec.ID)
		if err != nil {
			return nil, fmt.Errorf("reload token record: %w", err)
		}
		if !current.Expired(m.now()) {
			return current, nil
		}

		grant, err := m.exchanger.ExchangeRefreshToken(ctx, current.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("refresh exchange: %w", err)
		}

		current.AccessToken = grant.AccessToken
		current.RefreshToken = grant.RefreshToken
		current.ExpiresAt = m.expiry(grant.ExpiresIn)

		if err := m.store.Update(ctx, current); err != nil {
			return nil, fmt.Errorf("persist refreshed tokens: %w", err)
		}
		return current, nil
	})

	if err != nil {
		log.Printf("Tokens: refresh for user %d failed, serving stale record: %v", rec.ID, err)
		return false
	}

	*rec = *(v.(*models.TokenRecord))
	return true
}

// expiry converts a relative expires_in into an absolute timestamp. Always
// computed at issuance or refresh time, never copied verbatim; the store
// column has second resolution.
func (m *Manager) expiry(expiresIn int) time.Time {
	return m.now().UTC().Add(time.Duration(expiresIn) * time.Second).Truncate(time.Second)
}
