//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}

	return "localhost:6379"
}

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: getRedisAddr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

// pausingStore holds IncrementVisitCounter after the store update until
// release is closed.
type pausingStore struct {
	*store.MemoryStore

	reached chan struct{}
	release chan struct{}
}

func (p *pausingStore) IncrementVisitCounter(
	ctx context.Context, hash shortener.Hash,
) (*shortener.Record, error) {
	rec, err := p.MemoryStore.IncrementVisitCounter(ctx, hash)
	close(p.reached)
	<-p.release

	return rec, err
}

func TestRedisCacheRepositoryIntegration(t *testing.T) {
	ctx := context.Background()
	client := newRedisClient(t)

	t.Run("caches record on first read", func(t *testing.T) {
		backing := store.NewMemoryStore()
		cache := store.NewRedisCacheRepository(backing, client, time.Minute)
		rec := newRecord("cacheinsert1")
		defer client.Del(ctx, "url:cacheinsert1")

		require.NoError(t, cache.Insert(ctx, rec))

		n, err := client.Exists(ctx, "url:cacheinsert1").Result()
		require.NoError(t, err)
		assert.Zero(t, n)

		_, err = cache.FindByHash(ctx, rec.Hash)
		require.NoError(t, err)

		fields, err := client.HGetAll(ctx, "url:cacheinsert1").Result()
		require.NoError(t, err)
		assert.Equal(t, rec.URL, fields["url"])
		assert.Equal(t, "1", fields["active"])
	})

	t.Run("serves reads from cache", func(t *testing.T) {
		backing := store.NewMemoryStore()
		cache := store.NewRedisCacheRepository(backing, client, time.Minute)
		rec := newRecord("cacheread1")
		defer client.Del(ctx, "url:cacheread1")

		require.NoError(t, cache.Insert(ctx, rec))

		_, err := cache.FindByHash(ctx, rec.Hash)
		require.NoError(t, err)

		got, err := store.NewRedisCacheRepository(store.NewMemoryStore(), client, time.Minute).
			FindByHash(ctx, rec.Hash)

		require.NoError(t, err)
		assert.Equal(t, rec.URL, got.URL)
		assert.Equal(t, rec.RemoveToken, got.RemoveToken)
		assert.True(t, got.Active)
	})

	t.Run("refreshes cache on state change", func(t *testing.T) {
		backing := store.NewMemoryStore()
		cache := store.NewRedisCacheRepository(backing, client, time.Minute)
		rec := newRecord("cachestate1")
		defer client.Del(ctx, "url:cachestate1")

		require.NoError(t, cache.Insert(ctx, rec))

		_, err := cache.UpdateActiveState(ctx, rec.Hash, shortener.Disabled(time.Now()))
		require.NoError(t, err)

		got, err := cache.FindByHash(ctx, rec.Hash)
		require.NoError(t, err)
		assert.False(t, got.Active)
		assert.NotNil(t, got.RemovedAt)
	})

	t.Run("slow visit does not resurrect a disabled record", func(t *testing.T) {
		backing := &pausingStore{
			MemoryStore: store.NewMemoryStore(),
			reached:     make(chan struct{}),
			release:     make(chan struct{}),
		}
		cache := store.NewRedisCacheRepository(backing, client, time.Minute)
		rec := newRecord("cacherace1")
		defer client.Del(ctx, "url:cacherace1")

		require.NoError(t, cache.Insert(ctx, rec))
		_, err := cache.FindByHash(ctx, rec.Hash)
		require.NoError(t, err)

		done := make(chan struct{})

		go func() {
			defer close(done)

			_, _ = cache.IncrementVisitCounter(ctx, rec.Hash)
		}()

		<-backing.reached

		_, err = cache.UpdateActiveState(ctx, rec.Hash, shortener.Disabled(time.Now()))
		require.NoError(t, err)

		close(backing.release)
		<-done

		got, err := cache.FindByHash(ctx, rec.Hash)
		require.NoError(t, err)
		assert.False(t, got.Active)
	})

	t.Run("missing hash returns ErrNotFound", func(t *testing.T) {
		cache := store.NewRedisCacheRepository(store.NewMemoryStore(), client, time.Minute)

		_, err := cache.FindByHash(ctx, "cachemissing")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestRedisDictionaryIntegration(t *testing.T) {
	ctx := context.Background()
	client := newRedisClient(t)

	client.Del(ctx, "dict:domain", "dict:domain:counter")
	defer client.Del(ctx, "dict:domain", "dict:domain:counter")

	d := store.NewRedisDictionary(client)

	first, err := d.Identify(ctx, shortener.ClassDomain, "example.com")
	require.NoError(t, err)
	assert.Equal(t, shortener.FirstIdentifier, first)

	second, err := d.Identify(ctx, shortener.ClassDomain, "other.com")
	require.NoError(t, err)
	assert.Equal(t, first+1, second)

	// A new instance sees the same identifiers.
	again, err := store.NewRedisDictionary(client).Identify(ctx, shortener.ClassDomain, "example.com")
	require.NoError(t, err)
	assert.Equal(t, first, again)
}
