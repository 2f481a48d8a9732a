package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort                = "8080"
	defaultAPIBaseURL          = "http://localhost:5000"
	defaultAPIContentType      = "application/json"
	defaultAPITimeout          = "30s"
	defaultAPIRateRPS          = "10"
	defaultAPIRateBurst        = "20"
	defaultDatabaseURL         = "lifelessons.db"
	defaultSessionSecret       = "change-me-session-secret"
	defaultSessionTTL          = "24h"
	defaultSessionSweep        = "5m"
	defaultIdentitySecret      = "change-me-identity-secret"
	defaultIdentityTTL         = "5m"
	defaultIdentityIssuer      = "lifelessons-portal"
	defaultCacheTTL            = "30s"
	defaultCommentPollInterval = "3s"
	defaultCatalogPageSize     = "8"
	defaultProtectedAdmin      = "admin@gmail.com"
	defaultLogLevel            = "info"
	defaultGoogleJWKSURL       = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	firebaseIssuerPrefix       = "https://securetoken.google.com/"
)

// Config is the full runtime configuration of the portal.
type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	API      APIConfig
	Database DatabaseConfig
	Session  SessionConfig
	Identity IdentityConfig
	Portal   PortalConfig
	Google   GoogleConfig

	CORSAllowedOrigins []string
}

// APIConfig describes the upstream lessons REST API. Base URL and content type
// are fixed per deployment.
type APIConfig struct {
	BaseURL     string
	ContentType string
	Timeout     time.Duration
	RateRPS     float64
	RateBurst   int
}

type DatabaseConfig struct {
	URL string
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
	// SweepInterval is how often workspaces of expired sessions are freed.
	SweepInterval time.Duration
}

// IdentityConfig holds the signer used to mint a fresh bearer token for every
// upstream request.
type IdentityConfig struct {
	Secret   string
	TokenTTL time.Duration
	Issuer   string
}

// GoogleConfig describes how Google sign-in ID tokens are verified. Google
// sign-in is off while ProjectID is empty.
type GoogleConfig struct {
	ProjectID string
	Issuer    string
	JWKSURL   string
}

// Enabled reports whether Google sign-in can verify tokens.
func (g GoogleConfig) Enabled() bool { return g.ProjectID != "" }

type PortalConfig struct {
	CacheTTL            time.Duration
	CommentPollInterval time.Duration
	CatalogPageSize     int
	ProtectedAdminEmail string
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)
	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(getEnv("API_BASE_URL", defaultAPIBaseURL)), "/")
	cfg.API.ContentType = strings.TrimSpace(getEnv("API_CONTENT_TYPE", defaultAPIContentType))
	cfg.Database.URL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.Session.Secret = strings.TrimSpace(getEnv("SESSION_JWT_SECRET", defaultSessionSecret))
	cfg.Identity.Secret = strings.TrimSpace(getEnv("IDENTITY_JWT_SECRET", defaultIdentitySecret))
	cfg.Identity.Issuer = strings.TrimSpace(getEnv("IDENTITY_ISSUER", defaultIdentityIssuer))
	cfg.Google.ProjectID = strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID"))
	cfg.Google.JWKSURL = strings.TrimSpace(getEnv("GOOGLE_JWKS_URL", defaultGoogleJWKSURL))
	cfg.Google.Issuer = strings.TrimSpace(os.Getenv("GOOGLE_TOKEN_ISSUER"))
	if cfg.Google.Issuer == "" && cfg.Google.ProjectID != "" {
		cfg.Google.Issuer = firebaseIssuerPrefix + cfg.Google.ProjectID
	}
	cfg.Portal.ProtectedAdminEmail = strings.ToLower(strings.TrimSpace(getEnv("PROTECTED_ADMIN_EMAIL", defaultProtectedAdmin)))

	var err error
	if cfg.API.Timeout, err = parseDurationEnv("API_TIMEOUT", defaultAPITimeout); err != nil {
		return nil, err
	}
	if cfg.API.RateRPS, err = parseFloatEnv("API_RATE_RPS", defaultAPIRateRPS); err != nil {
		return nil, err
	}
	if cfg.API.RateBurst, err = parseIntEnv("API_RATE_BURST", defaultAPIRateBurst); err != nil {
		return nil, err
	}
	if cfg.Session.TTL, err = parseDurationEnv("SESSION_TTL", defaultSessionTTL); err != nil {
		return nil, err
	}
	if cfg.Session.SweepInterval, err = parseDurationEnv("SESSION_SWEEP_INTERVAL", defaultSessionSweep); err != nil {
		return nil, err
	}
	if cfg.Identity.TokenTTL, err = parseDurationEnv("IDENTITY_TOKEN_TTL", defaultIdentityTTL); err != nil {
		return nil, err
	}
	if cfg.Portal.CacheTTL, err = parseDurationEnv("CACHE_TTL", defaultCacheTTL); err != nil {
		return nil, err
	}
	if cfg.Portal.CommentPollInterval, err = parseDurationEnv("COMMENT_POLL_INTERVAL", defaultCommentPollInterval); err != nil {
		return nil, err
	}
	if cfg.Portal.CatalogPageSize, err = parseIntEnv("CATALOG_PAGE_SIZE", defaultCatalogPageSize); err != nil {
		return nil, err
	}

	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Logger builds the process logger from LOG_LEVEL. Prod-like envs log JSON.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if isProdLike(c.AppEnv) {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// IsProd reports whether the portal runs in a production-like environment.
func (c *Config) IsProd() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL must not be empty")
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be > 0")
	}
	if cfg.API.RateRPS <= 0 {
		return fmt.Errorf("API_RATE_RPS must be > 0")
	}
	if cfg.API.RateBurst <= 0 {
		return fmt.Errorf("API_RATE_BURST must be > 0")
	}
	if cfg.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be > 0")
	}
	if cfg.Identity.TokenTTL <= 0 {
		return fmt.Errorf("IDENTITY_TOKEN_TTL must be > 0")
	}
	if cfg.Portal.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must be >= 0")
	}
	if cfg.Portal.CommentPollInterval <= 0 {
		return fmt.Errorf("COMMENT_POLL_INTERVAL must be > 0")
	}
	if cfg.Portal.CatalogPageSize <= 0 {
		return fmt.Errorf("CATALOG_PAGE_SIZE must be > 0")
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.Session.Secret, defaultSessionSecret) {
			return fmt.Errorf("in prod/release SESSION_JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.Identity.Secret, defaultIdentitySecret) {
			return fmt.Errorf("in prod/release IDENTITY_JWT_SECRET must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseFloatEnv(name, fallback string) (float64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
