package sizetable

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of parsed tables kept in memory.
// A table pair per comparison plus timeline scans rarely touch more.
const DefaultCacheSize = 128

// Loader fetches and parses size tables, caching parsed results per
// (source, platform, version). The cache is never invalidated implicitly;
// callers needing fresh data call ClearCache.
type Loader struct {
	source Source
	cache  *lru.Cache[string, *Table]
}

// NewLoader creates a loader over the given source with a bounded cache.
func NewLoader(source Source, cacheSize int) (*Loader, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, *Table](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create table cache: %w", err)
	}

	return &Loader{source: source, cache: cache}, nil
}

// Source returns the loader's underlying source.
func (l *Loader) Source() Source { return l.source }

// Load returns the parsed table for one (platform, version) pair, fetching
// and parsing on a cache miss.
func (l *Loader) Load(ctx context.Context, platform, version string) (*Table, error) {
	key := l.cacheKey(platform, version)

	if table, ok := l.cache.Get(key); ok {
		return table, nil
	}

	raw, err := l.source.Table(ctx, platform, version)
	if err != nil {
		return nil, err
	}

	table := Parse(string(raw))
	l.cache.Add(key, table)

	return table, nil
}

// ClearCache drops all cached tables.
func (l *Loader) ClearCache() {
	l.cache.Purge()
}

// CacheLen reports the number of cached tables.
func (l *Loader) CacheLen() int {
	return l.cache.Len()
}

func (l *Loader) cacheKey(platform, version string) string {
	return l.source.ID() + "|" + platform + "|" + version
}
