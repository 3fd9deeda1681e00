package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/areamap/pkg/observability"
)

// Observed wraps c so that hits, misses and writes reach the registered
// observability.CacheHooks.
func Observed(c Cache) Cache {
	if _, ok := c.(*observed); ok {
		return c
	}
	return &observed{Cache: c}
}

type observed struct {
	Cache
}

func (o *observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := o.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, hit, err
}

func (o *observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	}
	return err
}

// KeyType reports which kind of key a Keyer produced: "http", "terrain",
// "render" or "other". Scope prefixes are skipped.
func KeyType(key string) string {
	for _, part := range strings.Split(key, ":") {
		switch part {
		case "http", "terrain", "render":
			return part
		}
	}
	return "other"
}
