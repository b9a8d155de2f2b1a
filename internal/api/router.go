package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/fuomag9/login-gateway/internal/config"
	"github.com/fuomag9/login-gateway/internal/models"
	"github.com/fuomag9/login-gateway/internal/provider"
	"github.com/fuomag9/login-gateway/internal/session"
)

// Cookie names differ between the two variants.
const (
	oauthCookieName    = "auth"
	passwordCookieName = "token"
)

// TokenManager is the token lifecycle surface the OAuth handlers use.
type TokenManager interface {
	StoreNewTokens(ctx context.Context, accessToken, refreshToken string, expiresIn int) error
	UserIDByAccessToken(ctx context.Context, accessToken string) (int, error)
	TokensForUser(ctx context.Context, userID int) (*models.TokenRecord, error)
}

// CodeExchanger is the provider surface the OAuth handlers use.
type CodeExchanger interface {
	AuthorizationURL() string
	ExchangeAuthorizationCode(ctx context.Context, code string) (*provider.TokenGrant, error)
}

// Authenticator is the credential surface the password handlers use.
type Authenticator interface {
	Register(ctx context.Context, username, password string) (bool, error)
	Login(ctx context.Context, username, password string) (int, bool, error)
}

// NewOAuthRouter builds the OAuth-variant HTTP front end
func NewOAuthRouter(cfg *config.Config, mgr TokenManager, exchanger CodeExchanger, signer *session.Signer, renderer *Renderer) http.Handler {
	r := newBaseRouter(cfg)

	authLimiter := NewRateLimiter(rate.Every(time.Second), 5)

	r.Get("/", HandleOAuthHome(mgr, exchanger, signer, renderer))
	r.With(StrictRateLimitMiddleware(authLimiter)).
		Get("/callback", HandleOAuthCallback(mgr, exchanger, signer))

	return r
}

// NewPasswordRouter builds the password-variant HTTP front end
func NewPasswordRouter(cfg *config.Config, auth Authenticator, signer *session.Signer, renderer *Renderer) http.Handler {
	r := newBaseRouter(cfg)

	authLimiter := NewRateLimiter(rate.Every(time.Second), 5)

	r.Get("/", HandlePasswordHome(renderer))
	r.Get("/login", HandleLoginForm(renderer))
	r.Get("/register", HandleRegisterForm(renderer))
	r.Group(func(r chi.Router) {
		r.Use(StrictRateLimitMiddleware(authLimiter))
		r.Post("/login", HandleLogin(auth, signer))
		r.Post("/register", HandleRegister(auth))
	})

	return r
}

func newBaseRouter(cfg *config.Config) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware(cfg))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Static assets
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("./web/static"))))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

func setSessionCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
