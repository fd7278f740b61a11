package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/grovetools/carbon/pkg/models"
)

func setupRedis(t *testing.T) *RedisBackend {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	backend, err := NewRedis("redis://" + endpoint)
	require.NoError(t, err)
	require.NoError(t, backend.Ping(ctx))
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func TestRedisGateway_Integration(t *testing.T) {
	backend := setupRedis(t)
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	g := NewGateway(backend, WithClock(clock), WithTTL(time.Minute))

	_, ok := Get[models.CachedStore](ctx, g)
	assert.False(t, ok)

	require.NoError(t, g.Set(ctx, sampleStore()))
	got, ok := Get[models.CachedStore](ctx, g)
	require.True(t, ok)
	assert.Equal(t, sampleStore(), got)

	clock.Advance(time.Minute)
	_, ok = Get[models.CachedStore](ctx, g)
	assert.False(t, ok)

	_, err := backend.Get(ctx, DefaultKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisBackendTTL_Integration(t *testing.T) {
	backend := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "k", []byte("v"), time.Second))
	v, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	assert.Eventually(t, func() bool {
		_, err := backend.Get(ctx, "k")
		return err == ErrNotFound
	}, 5*time.Second, 100*time.Millisecond)
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis("not a url")
	assert.Error(t, err)
}
