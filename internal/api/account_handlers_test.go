package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fuomag9/login-gateway/internal/accounts"
	"github.com/fuomag9/login-gateway/internal/models"
	"github.com/fuomag9/login-gateway/internal/session"
	"github.com/fuomag9/login-gateway/internal/store"
)

type memCredentialStore struct {
	creds  map[string]*models.Credential
	nextID int
}

func newMemCredentialStore() *memCredentialStore {
	return &memCredentialStore{creds: make(map[string]*models.Credential), nextID: 1}
}

func (m *memCredentialStore) Create(_ context.Context, username, passwordDigest string) error {
	if _, ok := m.creds[username]; ok {
		return store.ErrDuplicateUsername
	}
	m.creds[username] = &models.Credential{ID: m.nextID, Username: username, Password: passwordDigest}
	m.nextID++
	return nil
}

func (m *memCredentialStore) ByUsername(_ context.Context, username string) (*models.Credential, error) {
	cred, ok := m.creds[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cred, nil
}

func newPasswordTestRouter(t *testing.T) http.Handler {
	t.Helper()
	renderer, err := NewRenderer()
	require.NoError(t, err)
	signer := session.NewSigner([]byte("test-secret-key-0123456789"), session.DefaultTTL)
	service := accounts.NewService(newMemCredentialStore())
	return NewPasswordRouter(testRouterConfig(), service, signer, renderer)
}

func postForm(router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginFlow(t *testing.T) {
	router := newPasswordTestRouter(t)

	// Register alice
	rec := postForm(router, "/register", url.Values{"username": {"alice"}, "password": {"p1"}})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	// Correct credentials set the session cookie
	rec = postForm(router, "/login", url.Values{"username": {"alice"}, "password": {"p1"}})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	cookie := findCookie(t, rec.Result(), "token")
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)

	// Wrong password redirects back without a cookie
	rec = postForm(router, "/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
	require.Nil(t, findCookie(t, rec.Result(), "token"))
}

func TestRegisterDuplicateRedirectsBack(t *testing.T) {
	router := newPasswordTestRouter(t)

	rec := postForm(router, "/register", url.Values{"username": {"alice"}, "password": {"p1"}})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	rec = postForm(router, "/register", url.Values{"username": {"alice"}, "password": {"p2"}})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/register", rec.Header().Get("Location"))
}

func TestPasswordHomeAlwaysRenders(t *testing.T) {
	router := newPasswordTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Home")
}

func TestLoginFormRenders(t *testing.T) {
	router := newPasswordTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/login", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "form")
}
