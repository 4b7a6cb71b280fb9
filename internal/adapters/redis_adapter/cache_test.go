// internal/adapters/redis_adapter/cache_test.go
package redis_a_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/avelez/stockroom-be/internal/adapters/redis_adapter"
	"github.com/avelez/stockroom-be/internal/core/domain"
	"github.com/avelez/stockroom-be/test/helpers"
)

func setupCache(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return server, client
}

func TestCache_SetAndGet(t *testing.T) {
	_, client := setupCache(t)
	cache := redis_a.NewCache(client, time.Minute, helpers.TestLogger())
	ctx := context.Background()

	records := []domain.InventoryRecord{
		{CurrentStock: 12, StockStatus: domain.StatusInStock},
	}

	key := redis_a.BuildKey(redis_a.PrefixInventory, "records", "snapshot")
	require.NoError(t, cache.Set(ctx, key, records))

	var got []domain.InventoryRecord
	require.NoError(t, cache.Get(ctx, key, &got))
	require.Len(t, got, 1)
	assert.Equal(t, 12, got[0].CurrentStock)
	assert.Equal(t, domain.StatusInStock, got[0].StockStatus)
}

func TestCache_Get_Miss(t *testing.T) {
	_, client := setupCache(t)
	cache := redis_a.NewCache(client, time.Minute, helpers.TestLogger())

	var dest []domain.InventoryRecord
	err := cache.Get(context.Background(), "inv:absent", &dest)
	assert.ErrorIs(t, err, redis_a.ErrCacheMiss)
}

func TestCache_SetWithTTL_Expires(t *testing.T) {
	server, client := setupCache(t)
	cache := redis_a.NewCache(client, time.Minute, helpers.TestLogger())
	ctx := context.Background()

	require.NoError(t, cache.SetWithTTL(ctx, "inv:ttl", "value", 5*time.Second))

	exists, err := cache.Exists(ctx, "inv:ttl")
	require.NoError(t, err)
	assert.True(t, exists)

	server.FastForward(6 * time.Second)

	var dest string
	err = cache.Get(ctx, "inv:ttl", &dest)
	assert.ErrorIs(t, err, redis_a.ErrCacheMiss)
}

func TestCache_DeletePattern(t *testing.T) {
	_, client := setupCache(t)
	cache := redis_a.NewCache(client, time.Minute, helpers.TestLogger())
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "inv:records:snapshot", "a"))
	require.NoError(t, cache.Set(ctx, "inv:records:other", "b"))
	require.NoError(t, cache.Set(ctx, "report:value", "c"))

	require.NoError(t, cache.DeletePattern(ctx, "inv:records:*"))

	var dest string
	assert.ErrorIs(t, cache.Get(ctx, "inv:records:snapshot", &dest), redis_a.ErrCacheMiss)
	assert.ErrorIs(t, cache.Get(ctx, "inv:records:other", &dest), redis_a.ErrCacheMiss)
	assert.NoError(t, cache.Get(ctx, "report:value", &dest))
}

func TestCache_DeletePattern_NoMatches(t *testing.T) {
	_, client := setupCache(t)
	cache := redis_a.NewCache(client, time.Minute, helpers.TestLogger())

	assert.NoError(t, cache.DeletePattern(context.Background(), "inv:none:*"))
}

func TestCache_Ping(t *testing.T) {
	server, client := setupCache(t)
	cache := redis_a.NewCache(client, time.Minute, helpers.TestLogger())

	assert.NoError(t, cache.Ping(context.Background()))

	server.Close()
	assert.Error(t, cache.Ping(context.Background()))
}
