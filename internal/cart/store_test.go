package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStore backed by it.
func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, time.Hour, zerolog.Nop()), mr
}

func TestStores_RoundTrip(t *testing.T) {
	redisStore, _ := setupTestRedis(t)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			loaded, err := store.Load(ctx, "missing")
			require.NoError(t, err)
			assert.True(t, loaded.IsEmpty())

			c := New()
			c.Add("P001", 2, ModeIncrement)
			c.Add("P002", 1, ModeIncrement)
			require.NoError(t, store.Save(ctx, "sess-1", c))

			loaded, err = store.Load(ctx, "sess-1")
			require.NoError(t, err)
			assert.Equal(t, c.Entries(), loaded.Entries())

			// Sessions are isolated
			other, err := store.Load(ctx, "sess-2")
			require.NoError(t, err)
			assert.True(t, other.IsEmpty())

			// Saving replaces the whole cart
			loaded.Remove("P001")
			require.NoError(t, store.Save(ctx, "sess-1", loaded))
			reloaded, err := store.Load(ctx, "sess-1")
			require.NoError(t, err)
			assert.Equal(t, 0, reloaded.Quantity("P001"))
			assert.Equal(t, 1, reloaded.Quantity("P002"))

			// Saving an empty cart clears it
			reloaded.Clear()
			require.NoError(t, store.Save(ctx, "sess-1", reloaded))
			final, err := store.Load(ctx, "sess-1")
			require.NoError(t, err)
			assert.True(t, final.IsEmpty())
		})
	}
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	c := New()
	c.Add("P001", 2, ModeIncrement)
	require.NoError(t, store.Save(ctx, "sess", c))

	// Mutating the saved or loaded cart does not change stored state
	c.Add("P001", 5, ModeIncrement)
	loaded, err := store.Load(ctx, "sess")
	require.NoError(t, err)
	loaded.Clear()

	again, err := store.Load(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Quantity("P001"))
}

func TestRedisStore_SetsTTL(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	c := New()
	c.Add("P001", 1, ModeIncrement)
	require.NoError(t, store.Save(ctx, "sess", c))

	assert.Equal(t, time.Hour, mr.TTL(cartKey("sess")))

	mr.FastForward(2 * time.Hour)

	loaded, err := store.Load(ctx, "sess")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestRedisStore_SkipsMalformedEntries(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	mr.HSet(cartKey("sess"), "P001", "3", "P002", "abc", "P003", "0", "P004", "-2")

	loaded, err := store.Load(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
	assert.Equal(t, 3, loaded.Quantity("P001"))
}

func TestRedisStore_ConnectionError(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	mr.Close()

	_, err := store.Load(ctx, "sess")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load cart")

	err = store.Save(ctx, "sess", New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save cart")
}

func TestNewRedisStore_DefaultTTL(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	store := NewRedisStore(client, 0, zerolog.Nop())
	assert.Equal(t, DefaultTTL, store.ttl)
}
