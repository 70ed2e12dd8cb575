package pathkey

import (
	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/respool/internal/lru"
)

// Resolver resolves an identifier to a resource key. It mirrors
// respool.Resolver so resolvers compose without importing the root package.
type Resolver interface {
	ResolveKey(identifier string) (string, error)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(identifier string) (string, error)

// ResolveKey implements Resolver.
func (f ResolverFunc) ResolveKey(identifier string) (string, error) {
	return f(identifier)
}

// Cached memoizes another resolver. Hits are served from an LRU cache and
// concurrent misses for the same identifier collapse into a single inner
// call. Errors are never cached, so a transient stat failure does not pin a
// bad result.
type Cached struct {
	inner Resolver
	cache *lru.Cache[string, string]
	group singleflight.Group
}

// NewCached wraps inner with a cache of the given capacity.
// capacity <= 0 disables caching but keeps lookup collapsing.
func NewCached(inner Resolver, capacity int) *Cached {
	return &Cached{
		inner: inner,
		cache: lru.New[string, string](capacity),
	}
}

// ResolveKey implements Resolver.
func (c *Cached) ResolveKey(identifier string) (string, error) {
	if key, ok := c.cache.Get(identifier); ok {
		return key, nil
	}

	v, err, _ := c.group.Do(identifier, func() (any, error) {
		key, err := c.inner.ResolveKey(identifier)
		if err != nil {
			return "", err
		}
		c.cache.Set(identifier, key)
		return key, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Stats returns the underlying cache's hit and miss counters.
func (c *Cached) Stats() (hits, misses int64) {
	return c.cache.Stats()
}
