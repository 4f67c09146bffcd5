package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/biblio/internal/biblio/cache"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestRedisContainer runs the cache against a real Redis server. It needs a
// Docker daemon and is skipped with -short.
func TestRedisContainer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

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

	c := cache.NewRedis(cache.Config{Host: host, Port: port.Int()})
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Ping(ctx))

	key := cache.RefreshTokenIDKey("user-1")
	require.NoError(t, c.Set(ctx, key, "id-1", time.Minute))

	ok, err := c.DeleteIfEquals(ctx, key, "id-2")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = c.DeleteIfEquals(ctx, key, "id-1")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = c.Get(ctx, key)
	require.ErrorIs(t, err, cache.ErrMiss)
}
