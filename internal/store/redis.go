package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortref/internal/shortener"
)

// putScript checks both keys and writes both in one server-side step.
// Returns 0 on success, 1 when the code exists and 2 when the url exists.
var putScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 1
end
if redis.call('EXISTS', KEYS[2]) == 1 then
	return 2
end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('SET', KEYS[2], ARGV[2])
return 0
`)

// RedisStore is a Redis implementation of shortener.Store. Both key prefixes
// share the {shortref} hash tag so the put script stays in one cluster slot.
type RedisStore struct {
	client     redis.UniversalClient
	codePrefix string // code -> url
	urlPrefix  string // sha256(url) -> code
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client:     client,
		codePrefix: "{shortref}:code:",
		urlPrefix:  "{shortref}:url:",
	}
}

func (r *RedisStore) Put(ctx context.Context, code shortener.Code, url string) error {
	keys := []string{r.codeKey(code), r.urlKey(url)}

	status, err := putScript.Run(ctx, r.client, keys, url, string(code)).Int()
	if err != nil {
		return fmt.Errorf("put script: %w", err)
	}

	switch status {
	case 0:
		return nil
	case 1:
		return shortener.ErrDuplicateKey
	case 2:
		return shortener.ErrDuplicateValue
	default:
		return fmt.Errorf("put script: unexpected status %d", status)
	}
}

func (r *RedisStore) Get(ctx context.Context, code shortener.Code) (string, error) {
	url, err := r.client.Get(ctx, r.codeKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrNotFound
		}

		return "", fmt.Errorf("get url: %w", err)
	}

	return url, nil
}

func (r *RedisStore) KeyFor(ctx context.Context, url string) (shortener.Code, error) {
	code, err := r.client.Get(ctx, r.urlKey(url)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrNotFound
		}

		return "", fmt.Errorf("get code: %w", err)
	}

	return shortener.Code(code), nil
}

func (r *RedisStore) codeKey(code shortener.Code) string {
	return r.codePrefix + string(code)
}

func (r *RedisStore) urlKey(url string) string {
	return r.urlPrefix + hashURL(url)
}

var _ shortener.Store = (*RedisStore)(nil)
