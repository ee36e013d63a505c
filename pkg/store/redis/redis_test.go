package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/journey/pkg/store"
	"github.com/matzehuels/journey/pkg/store/redis"
	"github.com/matzehuels/journey/pkg/store/storetest"
)

func setup(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Store) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	s := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = s.Close() })
	return mr, s
}

func TestRedisStore_Contract(t *testing.T) {
	_, s := setup(t)
	storetest.Run(t, s)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, s := setup(t, redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "welcome", []byte(`{}`)))
	assert.True(t, mr.Exists("test:j:welcome"))
	assert.True(t, mr.Exists("test:index"))
	require.NoError(t, s.Ping(ctx))
}

func TestRedisStore_TTL(t *testing.T) {
	mr, s := setup(t, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "welcome", []byte(`{}`)))
	assert.Equal(t, time.Minute, mr.TTL(redis.DefaultPrefix+"j:welcome"))

	mr.FastForward(2 * time.Minute)
	_, err := s.Get(ctx, "welcome")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRedisStore_ListPrunesExpired(t *testing.T) {
	mr, s := setup(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "keep", []byte(`{}`)))
	// An index entry whose score is already in the past.
	_, err := mr.ZAdd(redis.DefaultPrefix+"index", 1, "stale")
	require.NoError(t, err)

	keys, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, keys)
}
