package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/biblio/pkg/httpx"
	"github.com/aussiebroadwan/biblio/pkg/jwtx"
)

type Config struct {
	JWTSecret       string        // Required outside dev: HS256 signing secret
	JWTIssuer       string        // Optional: iss claim, checked on verify
	JWTAudience     string        // Optional: aud claim, checked on verify
	AccessTokenTTL  time.Duration // Access token and session data lifetime (default: 1h)
	RefreshTokenTTL time.Duration // Refresh token lifetime (default: 24h)

	CacheHost     string // Redis host (default: localhost)
	CachePort     int    // Redis port (default: 6379)
	CachePassword string // Optional
	CacheDB       int    // Redis logical database (default: 0)

	DatabaseFile   string // Path to SQLite database file (default: ./biblio.db)
	PasswordHasher string // bcrypt or argon2 (default: bcrypt)
	PepperFile     string // Pepper for argon2 hashing (default: ./pepper)

	CookieSecure        bool          // Secure flag on token cookies (default: true outside dev)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	RateLimits     httpx.RateLimitProfiles
	TrustedProxies string // IPs/CIDRs whose forwarding headers name the client (default: none)
}

func LoadConfig() Config {
	env := getEnvOrDefault("ENV", "dev")

	return Config{
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTIssuer:       os.Getenv("JWT_TOKEN_ISSUER"),
		JWTAudience:     os.Getenv("JWT_TOKEN_AUDIENCE"),
		AccessTokenTTL:  getEnvSecondsOrDefault("JWT_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvSecondsOrDefault("JWT_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),

		CacheHost:     getEnvOrDefault("CACHE_HOST", "localhost"),
		CachePort:     getEnvIntOrDefault("CACHE_PORT", 6379),
		CachePassword: os.Getenv("CACHE_PASSWORD"),
		CacheDB:       getEnvIntOrDefault("CACHE_DB", 0),

		DatabaseFile:   getEnvOrDefault("DATABASE_FILE", "biblio.db"),
		PasswordHasher: getEnvOrDefault("PASSWORD_HASHER", "bcrypt"),
		PepperFile:     getEnvOrDefault("PEPPER_FILE", "pepper"),

		CookieSecure:        getEnvBoolOrDefault("COOKIE_SECURE", env != "dev"),
		Env:                 env,
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		RateLimits:     httpx.RateLimitProfilesFromEnv(),
		TrustedProxies: os.Getenv("RATELIMIT_TRUSTED_PROXIES"),
	}
}

// Validate rejects configurations the service cannot run with. A missing
// JWT secret is only tolerated in dev, where an ephemeral one is generated.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" && c.Env != "dev" {
		errs = append(errs, errors.New("JWT_SECRET is required outside dev"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_TOKEN_TTL must be positive"))
	}
	if c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_REFRESH_TOKEN_TTL must be positive"))
	}
	if c.RefreshTokenTTL > 0 && c.RefreshTokenTTL < c.AccessTokenTTL {
		errs = append(errs, errors.New("JWT_REFRESH_TOKEN_TTL must not be shorter than JWT_ACCESS_TOKEN_TTL"))
	}
	if c.CachePort <= 0 || c.CachePort > 65535 {
		errs = append(errs, errors.New("CACHE_PORT is out of range"))
	}
	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("RATELIMIT_TRUSTED_PROXIES: %w", err))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
		return b
	}

	return defaultValue
}

// getEnvSecondsOrDefault reads a lifetime given in whole seconds.
func getEnvSecondsOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}
