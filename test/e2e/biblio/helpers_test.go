package biblio_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/biblio/internal/biblio/app"
	"github.com/aussiebroadwan/biblio/pkg/httpx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * End-to-end helpers: a real Redis in a container, the application running
 * in-process against it, and a cookie-keeping client acting as the browser.
 */

const alicePassword = "alice-in-wonderland"

// setupRedisContainer starts Redis and returns its host and port.
func setupRedisContainer(t *testing.T) (string, int) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return host, port.Int()
}

// setupBiblio starts the application against a fresh Redis and database and
// returns its base URL.
func setupBiblio(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping end-to-end test in short mode")
	}

	host, port := setupRedisContainer(t)

	relaxed := httpx.RateLimitConfig{Requests: 1000, Window: time.Minute, Burst: 1000}
	application, err := app.New(app.Config{
		JWTSecret:           "e2e-secret-e2e-secret-e2e-secret",
		JWTIssuer:           "biblio",
		JWTAudience:         "biblio-api",
		AccessTokenTTL:      time.Hour,
		RefreshTokenTTL:     24 * time.Hour,
		CacheHost:           host,
		CachePort:           port,
		DatabaseFile:        filepath.Join(t.TempDir(), "biblio.db"),
		PasswordHasher:      "bcrypt",
		Env:                 "test",
		LogLevel:            "warn",
		LogFormat:           "json",
		ShutdownGracePeriod: time.Second,
		RateLimits: httpx.RateLimitProfiles{
			Credentials: relaxed,
			Refresh:     relaxed,
			Resource:    relaxed,
			System:      relaxed,
		},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = application.Shutdown()
	})

	return srv.URL
}

// browser keeps cookies between requests the way a web client would.
type browser struct {
	t       *testing.T
	baseURL string
	client  *http.Client
}

func newBrowser(t *testing.T, baseURL string) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, baseURL: baseURL, client: &http.Client{Jar: jar}}
}

func (b *browser) do(method, path string, body any) *http.Response {
	b.t.Helper()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(b.t.Context(), method, b.baseURL+path, rdr)
	require.NoError(b.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	b.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// cookie returns the cookie the jar would send to the service.
func (b *browser) cookie(name string) *http.Cookie {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.baseURL, nil)
	require.NoError(b.t, err)
	for _, c := range b.client.Jar.Cookies(req.URL) {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func signUp(t *testing.T, b *browser, email string) {
	t.Helper()
	resp := b.do(http.MethodPost, "/authentication/sign-up", map[string]string{
		"firstname": "Alice",
		"lastname":  "Liddell",
		"email":     email,
		"password":  alicePassword,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func signIn(t *testing.T, b *browser, email string) {
	t.Helper()
	resp := b.do(http.MethodPost, "/authentication/sign-in", map[string]string{
		"email":    email,
		"password": alicePassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
