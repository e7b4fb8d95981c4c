package tmdb

import (
	"context"
	"sync"
	"time"
)

// GenreProvider fetches the movie and TV genre taxonomies.
type GenreProvider interface {
	MovieGenres(ctx context.Context) GenreResult
	TVGenres(ctx context.Context) GenreResult
}

type genreCacheEntry struct {
	result  GenreResult
	expires time.Time
}

// CachingGenreProvider wraps another GenreProvider with a TTL-based
// in-memory cache. Taxonomies change rarely, so each successful fetch is
// reused for the TTL; failures are never cached.
type CachingGenreProvider struct {
	base GenreProvider
	ttl  time.Duration

	mu    sync.RWMutex
	items map[string]genreCacheEntry
}

// NewCachingGenreProvider returns a GenreProvider caching lookups for the
// provided TTL.
func NewCachingGenreProvider(base GenreProvider, ttl time.Duration) *CachingGenreProvider {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachingGenreProvider{
		base:  base,
		ttl:   ttl,
		items: make(map[string]genreCacheEntry),
	}
}

// MovieGenres returns the cached movie taxonomy when fresh, otherwise it
// delegates to the underlying provider.
func (c *CachingGenreProvider) MovieGenres(ctx context.Context) GenreResult {
	return c.lookup(ctx, "movie", c.base.MovieGenres)
}

// TVGenres returns the cached TV taxonomy when fresh.
func (c *CachingGenreProvider) TVGenres(ctx context.Context) GenreResult {
	return c.lookup(ctx, "tv", c.base.TVGenres)
}

func (c *CachingGenreProvider) lookup(ctx context.Context, key string, fetch func(context.Context) GenreResult) GenreResult {
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.result
	}

	result := fetch(ctx)
	if result.Err != nil {
		return result
	}

	c.mu.Lock()
	c.items[key] = genreCacheEntry{result: result, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return result
}
