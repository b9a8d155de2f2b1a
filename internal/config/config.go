package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Mode selects which gateway variant the process runs.
type Mode string

const (
	// ModeOAuth authenticates against an external OAuth2 provider.
	ModeOAuth Mode = "oauth"
	// ModePassword authenticates against locally stored credentials.
	ModePassword Mode = "password"
)

// Config holds application configuration
type Config struct {
	Port        int
	Mode        Mode
	Environment string
	Database    DatabaseConfig
	SecretKey   string
	CORSOrigins []string
	OAuth       *OAuthConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// OAuthConfig holds the settings for the external identity provider
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	APIEndpoint  string
	RedirectURI  string
	Scopes       []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnvInt("PORT", 3000),
		Mode:        Mode(getEnv("GATEWAY_MODE", string(ModeOAuth))),
		Environment: getEnv("ENVIRONMENT", "production"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost:5432"),
			User:     getEnv("DB_USER", "gateway"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "gateway"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			// The store is pooled at 10 concurrent connections.
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		SecretKey:   os.Getenv("SECRET_KEY"),
		CORSOrigins: loadCORSOrigins(),
		OAuth:       loadOAuthConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Mode != ModeOAuth && c.Mode != ModePassword {
		return fmt.Errorf("unsupported GATEWAY_MODE: %s", c.Mode)
	}

	// A missing signing key is a startup error. Sessions signed with a
	// per-process random key would not survive a restart and would diverge
	// across instances.
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY environment variable is required")
	}
	if len(c.SecretKey) < 16 {
		return fmt.Errorf("SECRET_KEY must be at least 16 characters long")
	}

	if c.Mode == ModeOAuth {
		if c.OAuth.ClientID == "" || c.OAuth.ClientSecret == "" {
			return fmt.Errorf("CLIENT_ID and CLIENT_SECRET are required in oauth mode")
		}
		if c.OAuth.APIEndpoint == "" {
			return fmt.Errorf("API_ENDPOINT is required in oauth mode")
		}
		if c.OAuth.RedirectURI == "" {
			return fmt.Errorf("REDIRECT_URI is required in oauth mode")
		}
	}

	return nil
}

// DSN builds a postgres connection string from the database settings
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host,
		Path:   d.Name,
	}

	query := u.Query()
	query.Set("sslmode", d.SSLMode)
	u.RawQuery = query.Encode()

	return u.String()
}

func loadCORSOrigins() []string {
	if appURL := strings.TrimRight(os.Getenv("APP_URL"), "/"); appURL != "" {
		return []string{appURL}
	}
	return []string{"http://localhost:3000"}
}

func loadOAuthConfig() *OAuthConfig {
	scopes := []string{"identify"}
	if scopesEnv := os.Getenv("OAUTH_SCOPES"); scopesEnv != "" {
		scopes = splitAndTrim(scopesEnv, ",")
	}

	return &OAuthConfig{
		ClientID:     os.Getenv("CLIENT_ID"),
		ClientSecret: os.Getenv("CLIENT_SECRET"),
		APIEndpoint:  strings.TrimRight(os.Getenv("API_ENDPOINT"), "/"),
		RedirectURI:  os.Getenv("REDIRECT_URI"),
		Scopes:       scopes,
	}
}

func splitAndTrim(s, sep string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
