package generate

import (
	"context"
	"time"

	"github.com/matzehuels/journey/pkg/cache"
	"github.com/matzehuels/journey/pkg/observability"
)

// Cached memoizes a Generator's responses. Identical (model, prompt) pairs
// are served from the cache until TTL expires. Cache failures never fail a
// generation.
type Cached struct {
	Generator Generator
	Cache     cache.Cache
	Model     string
	TTL       time.Duration
}

const cacheKeyType = "generate"

func (c *Cached) Generate(ctx context.Context, prompt string) (string, error) {
	key := cache.Key(cacheKeyType, c.Model, prompt)
	hooks := observability.Cache()

	if data, hit, err := c.Cache.Get(ctx, key); err == nil && hit {
		hooks.OnCacheHit(ctx, cacheKeyType)
		return string(data), nil
	}
	hooks.OnCacheMiss(ctx, cacheKeyType)

	text, err := c.Generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if err := c.Cache.Set(ctx, key, []byte(text), c.TTL); err == nil {
		hooks.OnCacheSet(ctx, cacheKeyType, len(text))
	}
	return text, nil
}

var _ Generator = (*Cached)(nil)
