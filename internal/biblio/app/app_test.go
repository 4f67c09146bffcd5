package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/biblio/internal/biblio/domain"
	"github.com/aussiebroadwan/biblio/pkg/cryptox"
	"github.com/aussiebroadwan/biblio/pkg/httpx"
	"github.com/aussiebroadwan/biblio/pkg/idx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(t *testing.T, mr *miniredis.Miniredis) Config {
	t.Helper()

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	return Config{
		Env:                 "dev",
		AccessTokenTTL:      time.Hour,
		RefreshTokenTTL:     24 * time.Hour,
		CacheHost:           mr.Host(),
		CachePort:           port,
		DatabaseFile:        filepath.Join(t.TempDir(), "biblio.db"),
		PasswordHasher:      "argon2",
		PepperFile:          filepath.Join(t.TempDir(), "pepper"),
		LogLevel:            "error",
		ShutdownGracePeriod: time.Second,
		RateLimits:          httpx.DefaultRateLimitProfiles(),
	}
}

func TestNewWiresEverything(t *testing.T) {
	mr := miniredis.RunT(t)

	application, err := New(testConfig(t, mr))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Shutdown() })

	for _, path := range []string{"/livez", "/readyz"} {
		rec := httptest.NewRecorder()
		application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewFailsWithoutCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, mr)
	mr.Close()

	_, err := New(cfg)
	require.ErrorContains(t, err, "cache")
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, mr)
	cfg.Env = "prod"

	_, err := New(cfg)
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestArgon2DeploymentAcceptsBcryptAccounts(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	application, err := New(testConfig(t, mr))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Shutdown() })

	legacy, err := cryptox.NewBcryptHasher(bcrypt.MinCost).Hash("seeded with bcrypt")
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, application.db.Users().CreateUser(ctx, domain.User{
		ID:           idx.New().String(),
		Firstname:    "Legacy",
		Lastname:     "Account",
		Email:        "legacy@example.com",
		PasswordHash: legacy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))

	body := strings.NewReader(`{"email":"legacy@example.com","password":"seeded with bcrypt"}`)
	req := httptest.NewRequest(http.MethodPost, "/authentication/sign-in", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	fresh, err := application.hasher.Hash("a new long password")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(fresh, "$argon2id$"))
}
