package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortref/internal/shortener"
	"github.com/serroba/shortref/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableRedis returns a client whose every command fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestCacheStore_FallsThroughWithoutRedis(t *testing.T) {
	backing, _ := store.NewMemoryStore(map[shortener.Code]string{"foo": "bar"})
	s := store.NewCacheStore(backing, unreachableRedis(t), time.Minute)

	t.Run("get reads the backing store", func(t *testing.T) {
		url, err := s.Get(context.Background(), "foo")

		require.NoError(t, err)
		assert.Equal(t, "bar", url)
	})

	t.Run("key for reads the backing store", func(t *testing.T) {
		code, err := s.KeyFor(context.Background(), "bar")

		require.NoError(t, err)
		assert.Equal(t, shortener.Code("foo"), code)
	})

	t.Run("put writes the backing store", func(t *testing.T) {
		err := s.Put(context.Background(), "baz", "qux")

		require.NoError(t, err)

		url, err := backing.Get(context.Background(), "baz")
		require.NoError(t, err)
		assert.Equal(t, "qux", url)
	})

	t.Run("put keeps uniqueness errors", func(t *testing.T) {
		assert.ErrorIs(t, s.Put(context.Background(), "foo", "other"), shortener.ErrDuplicateKey)
		assert.ErrorIs(t, s.Put(context.Background(), "other", "bar"), shortener.ErrDuplicateValue)
	})

	t.Run("misses stay not found", func(t *testing.T) {
		_, err := s.Get(context.Background(), "missing")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}
