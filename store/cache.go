package store

import (
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/bitmark-inc/geosubmit-api/schema"
)

const (
	DefaultCacheSize = 1000
	DefaultCacheTTL  = 5 * time.Minute
)

// CachedAPIKeys keeps recent api key lookups in memory, including keys
// that were not found. Lookup errors are never cached.
type CachedAPIKeys struct {
	next  APIKeys
	cache *expirable.LRU[string, *schema.APIKey]
}

func NewCachedAPIKeys(next APIKeys, size int, ttl time.Duration) *CachedAPIKeys {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedAPIKeys{
		next:  next,
		cache: expirable.NewLRU[string, *schema.APIKey](size, nil, ttl),
	}
}

// GetAPIKey returns ErrAPIKeyNotFound for unknown keys, cached or not.
func (c *CachedAPIKeys) GetAPIKey(key string) (*schema.APIKey, error) {
	if k, ok := c.cache.Get(key); ok {
		if k == nil {
			return nil, ErrAPIKeyNotFound
		}
		return k, nil
	}

	k, err := c.next.GetAPIKey(key)
	if err != nil {
		if errors.Is(err, ErrAPIKeyNotFound) {
			c.cache.Add(key, nil)
		}
		return nil, err
	}

	c.cache.Add(key, k)
	return k, nil
}
