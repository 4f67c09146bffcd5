package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"ENV", "JWT_SECRET", "JWT_ACCESS_TOKEN_TTL", "JWT_REFRESH_TOKEN_TTL", "CACHE_PORT", "COOKIE_SECURE", "PASSWORD_HASHER"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, time.Hour, cfg.AccessTokenTTL)
	require.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, 6379, cfg.CachePort)
	require.Equal(t, "bcrypt", cfg.PasswordHasher)
	require.False(t, cfg.CookieSecure)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "900")
	t.Setenv("JWT_REFRESH_TOKEN_TTL", "7200")
	t.Setenv("CACHE_HOST", "redis")
	t.Setenv("CACHE_PORT", "6380")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "30s")
	t.Setenv("RATELIMIT_CREDENTIALS_REQUESTS", "3")
	t.Setenv("RATELIMIT_TRUSTED_PROXIES", "10.0.0.0/8")

	cfg := LoadConfig()
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 2*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, "redis", cfg.CacheHost)
	require.Equal(t, 6380, cfg.CachePort)
	require.Equal(t, 30*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, 3, cfg.RateLimits.Credentials.Requests)
	require.Equal(t, "10.0.0.0/8", cfg.TrustedProxies)
	require.True(t, cfg.CookieSecure)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		JWTSecret:       "x",
		Env:             "prod",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		CachePort:       6379,
	}
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *Config){
		"missing secret outside dev": func(c *Config) { c.JWTSecret = "" },
		"zero access ttl":            func(c *Config) { c.AccessTokenTTL = 0 },
		"refresh shorter":            func(c *Config) { c.RefreshTokenTTL = time.Minute },
		"bad port":                   func(c *Config) { c.CachePort = 70000 },
		"bad trusted proxy":          func(c *Config) { c.TrustedProxies = "10.0.0.0/8, proxy.local" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			require.Error(t, c.Validate())
		})
	}

	dev := valid
	dev.Env = "dev"
	dev.JWTSecret = ""
	require.NoError(t, dev.Validate())
}

func TestGetEnvDurationOrDefault(t *testing.T) {
	t.Setenv("TEST_DURATION", "90")
	require.Equal(t, 90*time.Second, getEnvDurationOrDefault("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION", "2m")
	require.Equal(t, 2*time.Minute, getEnvDurationOrDefault("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION", "garbage")
	require.Equal(t, time.Second, getEnvDurationOrDefault("TEST_DURATION", time.Second))
}
