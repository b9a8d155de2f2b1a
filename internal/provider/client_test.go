package provider

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fuomag9/login-gateway/internal/config"
)

func testConfig(endpoint string) *config.OAuthConfig {
	return &config.OAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		APIEndpoint:  endpoint,
		RedirectURI:  "http://localhost:3000/callback",
		Scopes:       []string{"identify"},
	}
}

func TestExchangeAuthorizationCode(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/oauth2/token", r.URL.Path)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		expectedAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-id:client-secret"))
		require.Equal(t, expectedAuth, r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		require.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		require.Equal(t, "abc", r.PostForm.Get("code"))
		require.Equal(t, "http://localhost:3000/callback", r.PostForm.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at","refresh_token":"rt","expires_in":604800}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	grant, err := c.ExchangeAuthorizationCode(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, "at", grant.AccessToken)
	require.Equal(t, "rt", grant.RefreshToken)
	require.Equal(t, 604800, grant.ExpiresIn)
	require.Equal(t, 1, attempts)
}

func TestExchangeRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		require.Equal(t, "rt-old", r.PostForm.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-new","refresh_token":"rt-new","expires_in":3600}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	grant, err := c.ExchangeRefreshToken(context.Background(), "rt-old")
	require.NoError(t, err)
	require.Equal(t, "at-new", grant.AccessToken)
	require.Equal(t, "rt-new", grant.RefreshToken)
}

func TestExchangeErrorCarriesUpstreamStatusAndBody(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.ExchangeRefreshToken(context.Background(), "revoked")
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	require.Equal(t, http.StatusBadRequest, provErr.StatusCode)
	require.Contains(t, provErr.Body, "invalid_grant")

	// Single attempt, no retries
	require.Equal(t, 1, attempts)
}

func TestExchangeRejectsEmptyAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"expires_in":3600}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.ExchangeAuthorizationCode(context.Background(), "abc")
	require.Error(t, err)
}

func TestAuthorizationURL(t *testing.T) {
	c := NewClient(testConfig("https://provider.example"))
	u := c.AuthorizationURL()
	require.Contains(t, u, "https://provider.example/oauth2/authorize?")
	require.Contains(t, u, "client_id=client-id")
	require.Contains(t, u, "response_type=code")
	require.Contains(t, u, "scope=identify")
}
