// Package secrets caches secret material fetched from an external source.
// Values live in memory for a bounded TTL so rotation in the source propagates
// without restarting the service, while hot paths avoid a fetch per request.
package secrets

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"
)

// Fetcher retrieves the current value of a named secret from its source.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, name string) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}

// EnvFetcher reads secrets from environment variables. It is the default
// source for local development.
type EnvFetcher struct{}

func (EnvFetcher) Fetch(_ context.Context, name string) (string, error) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("secret %q not present in environment", name)
	}
	return value, nil
}

type entry struct {
	value     string
	expiresAt time.Time
}

// Cache is a read-through secret cache. Each entry expires after the
// configured TTL; concurrent misses for the same name are coalesced into a
// single fetch, and transient fetch failures are retried with exponential
// backoff.
//
// Construct one per source with NewCache and inject it where needed; callers
// own the instance and its lifetime.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time
	retry   func() backoff.BackOff

	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock overrides the time source, letting tests control expiry.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// WithRetryPolicy overrides the backoff applied to failing fetches. The
// factory is invoked once per fetch attempt sequence.
func WithRetryPolicy(factory func() backoff.BackOff) CacheOption {
	return func(c *Cache) {
		c.retry = factory
	}
}

// NewCache creates a cache over the given fetcher. Entries expire ttl after
// they were fetched; a non-positive ttl disables caching entirely.
func NewCache(fetcher Fetcher, ttl time.Duration, opts ...CacheOption) *Cache {
	c := &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
		retry: func() backoff.BackOff {
			policy := backoff.NewExponentialBackOff()
			policy.InitialInterval = 50 * time.Millisecond
			policy.MaxInterval = time.Second
			return backoff.WithMaxRetries(policy, 3)
		},
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for name, fetching it when absent or expired.
func (c *Cache) Get(ctx context.Context, name string) (string, error) {
	if value, ok := c.lookup(name); ok {
		return value, nil
	}

	v, err, _ := c.group.Do(name, func() (any, error) {
		// A concurrent caller may have repopulated the entry while this
		// one waited on the flight group.
		if value, ok := c.lookup(name); ok {
			return value, nil
		}

		value, err := c.fetch(ctx, name)
		if err != nil {
			return "", err
		}
		c.store(name, value)
		return value, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached entry for name, forcing the next Get to fetch.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}

func (c *Cache) lookup(name string) (string, bool) {
	if c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok || c.now().After(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

func (c *Cache) store(name, value string) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
}

func (c *Cache) fetch(ctx context.Context, name string) (string, error) {
	var value string
	operation := func() error {
		var err error
		value, err = c.fetcher.Fetch(ctx, name)
		return err
	}
	if err := backoff.Retry(operation, backoff.WithContext(c.retry(), ctx)); err != nil {
		return "", fmt.Errorf("fetch secret %q: %w", name, err)
	}
	return value, nil
}
