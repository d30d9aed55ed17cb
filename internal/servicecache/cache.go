// Package servicecache tracks which optional SQL services exist on the
// connected server. Service availability varies by operating system release
// and PTF level, and probing the services catalog on every tool call would
// add a network round trip per invocation; the cache trades a bounded
// staleness window for throughput.
package servicecache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a probe result stays fresh before the next lookup
// revalidates it.
const DefaultTTL = 5 * time.Minute

// ProbeFunc answers whether a (schema, service) pair exists on the remote
// server, typically by querying the catalog-of-services view. Injected so
// the cache can be exercised against fakes.
type ProbeFunc func(ctx context.Context, schema, service string) (bool, error)

type record struct {
	available bool
	checkedAt time.Time
}

// Cache is safe for concurrent use. Writes are serialized per key; lookups
// for unrelated keys never block each other, and concurrent lookups for the
// same uncached key share a single in-flight probe.
type Cache struct {
	probe ProbeFunc
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	records map[string]record

	flight singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a Cache. Panics if probe is nil (construction-time misuse, not
// a runtime condition).
func New(probe ProbeFunc, opts ...Option) *Cache {
	if probe == nil {
		panic("servicecache: probe must not be nil")
	}
	c := &Cache{
		probe:   probe,
		ttl:     DefaultTTL,
		now:     time.Now,
		records: make(map[string]record),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ServiceExists reports whether schema.service is available on the connected
// server. The first call for a pair issues one probe; calls inside the TTL
// window answer from cache; after expiry the next call revalidates. A probe
// error is returned to every waiter and nothing is cached, so the next call
// retries.
func (c *Cache) ServiceExists(ctx context.Context, schema, service string) (bool, error) {
	key := strings.ToUpper(schema) + "." + strings.ToUpper(service)

	c.mu.RLock()
	rec, ok := c.records[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(rec.checkedAt) < c.ttl {
		return rec.available, nil
	}

	// singleflight guarantees at most one in-flight probe per key;
	// concurrent requesters wait on the same result.
	v, err, _ := c.flight.Do(key, func() (any, error) {
		// Re-check under the flight: a concurrent caller may have
		// refreshed the record while this one waited its turn.
		c.mu.RLock()
		rec, ok := c.records[key]
		c.mu.RUnlock()
		if ok && c.now().Sub(rec.checkedAt) < c.ttl {
			return rec.available, nil
		}

		available, err := c.probe(ctx, schema, service)
		if err != nil {
			return false, fmt.Errorf("service probe for %s failed: %w", key, err)
		}

		c.mu.Lock()
		c.records[key] = record{available: available, checkedAt: c.now()}
		c.mu.Unlock()
		return available, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Invalidate drops the cached record for a pair, forcing the next lookup to
// probe again.
func (c *Cache) Invalidate(schema, service string) {
	key := strings.ToUpper(schema) + "." + strings.ToUpper(service)
	c.mu.Lock()
	delete(c.records, key)
	c.mu.Unlock()
}

// Len reports how many pairs are currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
