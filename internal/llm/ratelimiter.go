package llm

import (
	"context"
	"sync"
	"time"
)

// Bucket is a token bucket refilled continuously at rpm tokens per minute.
type Bucket struct {
	rpm      int
	mu       sync.Mutex
	tokens   float64
	lastFill time.Time
}

// NewBucket returns a full bucket allowing rpm requests per minute.
func NewBucket(rpm int) *Bucket {
	return &Bucket{rpm: rpm, tokens: float64(rpm), lastFill: time.Now()}
}

// Wait blocks until a token is available or ctx is done.
func (b *Bucket) Wait(ctx context.Context) error {
	for {
		b.mu.Lock()
		now := time.Now()
		b.tokens += now.Sub(b.lastFill).Minutes() * float64(b.rpm)
		if b.tokens > float64(b.rpm) {
			b.tokens = float64(b.rpm)
		}
		b.lastFill = now

		if b.tokens >= 1 {
			b.tokens--
			b.mu.Unlock()
			return nil
		}
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// RateLimitedProvider wraps a Provider with a token bucket.
type RateLimitedProvider struct {
	provider Provider
	bucket   *Bucket
}

// NewRateLimitedProvider wraps provider so that at most rpm requests per
// minute reach it. A non-positive rpm returns provider unchanged.
func NewRateLimitedProvider(provider Provider, rpm int) Provider {
	if rpm <= 0 {
		return provider
	}
	return &RateLimitedProvider{provider: provider, bucket: NewBucket(rpm)}
}

func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.bucket.Wait(ctx); err != nil {
		return nil, err
	}
	return r.provider.Complete(ctx, req)
}
