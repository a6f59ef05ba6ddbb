package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedEmbedder memoises single-text embeddings. Query embeddings repeat
// often in a chat session. The corpus store embeds documents one text at a
// time too, so ingestion should use Uncached to keep chunks out of the cache.
type CachedEmbedder struct {
	inner Embedder
	cache *cache.Cache
}

// NewCachedEmbedder wraps inner with a cache whose entries expire after ttl.
func NewCachedEmbedder(inner Embedder, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		inner: inner,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *CachedEmbedder) Name() string    { return c.inner.Name() }
func (c *CachedEmbedder) Dimensions() int { return c.inner.Dimensions() }

func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) != 1 {
		return c.inner.Embed(ctx, texts)
	}

	key := cacheKey(c.inner.Name(), texts[0])
	if v, found := c.cache.Get(key); found {
		return [][]float32{v.([]float32)}, nil
	}

	vecs, err := c.inner.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) == 1 {
		c.cache.Set(key, vecs[0], cache.DefaultExpiration)
	}
	return vecs, nil
}

// Uncached returns the embedder beneath a CachedEmbedder, or e itself.
func Uncached(e Embedder) Embedder {
	if c, ok := e.(*CachedEmbedder); ok {
		return c.inner
	}
	return e
}

// Len reports the number of cached vectors.
func (c *CachedEmbedder) Len() int {
	return c.cache.ItemCount()
}

func cacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
