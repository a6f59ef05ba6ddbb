package embeddings

import (
	"context"

	"github.com/ziadkadry99/doc-assistant/internal/llm"
)

// RateLimitedEmbedder takes one bucket token per Embed call.
type RateLimitedEmbedder struct {
	inner  Embedder
	bucket *llm.Bucket
}

// NewRateLimitedEmbedder returns inner unchanged when rpm <= 0.
func NewRateLimitedEmbedder(inner Embedder, rpm int) Embedder {
	if rpm <= 0 {
		return inner
	}
	return &RateLimitedEmbedder{inner: inner, bucket: llm.NewBucket(rpm)}
}

func (r *RateLimitedEmbedder) Name() string    { return r.inner.Name() }
func (r *RateLimitedEmbedder) Dimensions() int { return r.inner.Dimensions() }

func (r *RateLimitedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := r.bucket.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Embed(ctx, texts)
}
