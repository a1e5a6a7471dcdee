package storage

import (
	"github.com/coocood/freecache"

	"github.com/julianstephens/rotipani/internal/constants"
	"github.com/julianstephens/rotipani/internal/logger"
)

const (
	cacheAbsent  byte = 0
	cachePresent byte = 1
)

// CacheStats reports cache effectiveness for diagnostics
type CacheStats struct {
	Entries int64
	Hits    int64
	Misses  int64
}

// CachedStore is a read-through cache in front of another Provider.
// Month and streak views read dozens of mostly absent days, so absence
// is cached as well as values.
type CachedStore struct {
	Provider
	cache *freecache.Cache
	ttl   int
}

// NewCachedStore wraps inner with a cache of sizeMB megabytes. A size of
// zero or less disables caching and returns inner unchanged.
func NewCachedStore(inner Provider, sizeMB int) Provider {
	if sizeMB <= 0 {
		logger.Debug("Read cache disabled")
		return inner
	}

	logger.Debug("Read cache initialized", "sizeMB", sizeMB)
	return &CachedStore{
		Provider: inner,
		cache:    freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:      int(constants.CacheTTL.Seconds()),
	}
}

func (s *CachedStore) Get(key string) (string, bool, error) {
	if cached, err := s.cache.Get([]byte(key)); err == nil && len(cached) > 0 {
		if cached[0] == cacheAbsent {
			return "", false, nil
		}
		return string(cached[1:]), true, nil
	}

	value, ok, err := s.Provider.Get(key)
	if err != nil {
		return "", false, err
	}

	entry := []byte{cacheAbsent}
	if ok {
		entry = append([]byte{cachePresent}, value...)
	}
	// A value too large for the cache is simply not cached.
	_ = s.cache.Set([]byte(key), entry, s.ttl)

	return value, ok, nil
}

func (s *CachedStore) Set(key, value string) error {
	s.cache.Del([]byte(key))
	return s.Provider.Set(key, value)
}

func (s *CachedStore) Remove(key string) error {
	s.cache.Del([]byte(key))
	return s.Provider.Remove(key)
}

func (s *CachedStore) Clear() error {
	s.cache.Clear()
	return s.Provider.Clear()
}

func (s *CachedStore) Load() error {
	s.cache.Clear()
	return s.Provider.Load()
}

func (s *CachedStore) Close() error {
	s.cache.Clear()
	return s.Provider.Close()
}

// Stats returns the cache counters
func (s *CachedStore) Stats() CacheStats {
	return CacheStats{
		Entries: s.cache.EntryCount(),
		Hits:    s.cache.HitCount(),
		Misses:  s.cache.MissCount(),
	}
}

// Unwrap returns the provider behind the cache
func (s *CachedStore) Unwrap() Provider {
	return s.Provider
}
