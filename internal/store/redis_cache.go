package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortref/internal/shortener"
)

// CacheStore wraps a Store with a Redis read-through cache. Mappings never
// change once written, so cached entries cannot go stale.
type CacheStore struct {
	store      shortener.Store
	client     redis.UniversalClient
	codePrefix string
	urlPrefix  string
	ttl        time.Duration
}

// NewCacheStore creates a new Redis-cached store decorator. A zero ttl keeps
// entries until evicted.
func NewCacheStore(store shortener.Store, client redis.UniversalClient, ttl time.Duration) *CacheStore {
	return &CacheStore{
		store:      store,
		client:     client,
		codePrefix: "shortref:cache:code:",
		urlPrefix:  "shortref:cache:url:",
		ttl:        ttl,
	}
}

// Put stores the pair in the underlying store and then warms the cache.
func (c *CacheStore) Put(ctx context.Context, code shortener.Code, url string) error {
	if err := c.store.Put(ctx, code, url); err != nil {
		return err
	}

	c.cache(ctx, code, url)

	return nil
}

// Get checks the cache before the underlying store.
func (c *CacheStore) Get(ctx context.Context, code shortener.Code) (string, error) {
	if url, err := c.client.Get(ctx, c.codePrefix+string(code)).Result(); err == nil {
		return url, nil
	}

	url, err := c.store.Get(ctx, code)
	if err != nil {
		return "", err
	}

	c.cache(ctx, code, url)

	return url, nil
}

// KeyFor checks the cache before the underlying store.
func (c *CacheStore) KeyFor(ctx context.Context, url string) (shortener.Code, error) {
	if code, err := c.client.Get(ctx, c.urlPrefix+hashURL(url)).Result(); err == nil {
		return shortener.Code(code), nil
	}

	code, err := c.store.KeyFor(ctx, url)
	if err != nil {
		return "", err
	}

	c.cache(ctx, code, url)

	return code, nil
}

// cache writes both directions; failures only cost a later miss.
func (c *CacheStore) cache(ctx context.Context, code shortener.Code, url string) {
	pipe := c.client.Pipeline()
	pipe.Set(ctx, c.codePrefix+string(code), url, c.ttl)
	pipe.Set(ctx, c.urlPrefix+hashURL(url), string(code), c.ttl)

	_, _ = pipe.Exec(ctx)
}

var _ shortener.Store = (*CacheStore)(nil)
