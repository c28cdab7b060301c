package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sieve/pkg/adapters/redis"
	"github.com/aretw0/sieve/pkg/ports"
)

func newTestStore(t *testing.T, opts ...redis.Option) *redis.Store {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redis.NewFromClient(client, opts...)
}

func TestRedisStore_Contract(t *testing.T) {
	store := newTestStore(t)
	ports.RunResultStoreContract(t, store)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithPrefix("custom:"))

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, ports.StoredResult{RunID: "r1", Scenario: "s", Document: []byte(`{}`)}))

	assert.True(t, mr.Exists("custom:r1"))
	assert.False(t, mr.Exists("sieve:result:r1"))
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithTTL(time.Minute))

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, ports.StoredResult{RunID: "r1", Scenario: "s", Document: []byte(`{}`)}))

	mr.FastForward(2 * time.Minute)

	_, err = store.Load(ctx, "r1")
	assert.ErrorIs(t, err, ports.ErrResultNotFound)

	// List must not report runs whose documents the server already expired,
	// and the stale index entry stays gone afterwards.
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.Save(ctx, ports.StoredResult{RunID: "r2", Scenario: "s", Document: []byte(`{}`)}))
	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, ids)
}

func TestRedisStore_ListInSaveOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Save(ctx, ports.StoredResult{RunID: id, Scenario: "s", Document: []byte(`{}`)}))
	}

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}
