// Package provider is a thin client for the external authorization server.
// It performs the two token-exchange grants and nothing else: one attempt
// per call, no retries, errors surfaced immediately.
package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fuomag9/login-gateway/internal/config"
)

// TokenGrant is the provider's response to a successful token exchange.
type TokenGrant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// ProviderError carries the upstream status and body of a failed exchange.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// Client performs OAuth2 token exchanges against the provider's API endpoint
type Client struct {
	cfg        *config.OAuthConfig
	basicAuth  string
	httpClient *http.Client
}

// NewClient creates a provider client with HTTP Basic client credentials
func NewClient(cfg *config.OAuthConfig) *Client {
	auth := base64.StdEncoding.EncodeToString([]byte(cfg.ClientID + ":" + cfg.ClientSecret))

	return &Client{
		cfg:       cfg,
		basicAuth: "Basic " + auth,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AuthorizationURL returns the provider's authorization page for the
// configured client and redirect URI.
func (c *Client) AuthorizationURL() string {
	params := url.Values{}
	params.Set("client_id", c.cfg.ClientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("scope", strings.Join(c.cfg.Scopes, " "))

	return c.cfg.APIEndpoint + "/oauth2/authorize?" + params.Encode()
}

// ExchangeAuthorizationCode exchanges a one-time authorization code for a
// token pair.
func (c *Client) ExchangeAuthorizationCode(ctx context.Context, code string) (*TokenGrant, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", c.cfg.RedirectURI)

	return c.exchange(ctx, data)
}

// ExchangeRefreshToken exchanges a refresh token for a new token pair.
func (c *Client) ExchangeRefreshToken(ctx context.Context, refreshToken string) (*TokenGrant, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)

	return c.exchange(ctx, data)
}

func (c *Client) exchange(ctx context.Context, data url.Values) (*TokenGrant, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.APIEndpoint+"/oauth2/token", strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Authorization", c.basicAuth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var grant TokenGrant
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	if grant.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}

	return &grant, nil
}
