// Package embedtest provides a deterministic offline Embedder for tests.
package embedtest

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync/atomic"
)

// Embedder hashes words into a fixed number of buckets so texts sharing
// words land close together. It never calls the network.
type Embedder struct {
	Dims int
	// Fail, when set, makes every Embed call return an error.
	Fail bool

	calls atomic.Int64
}

// New returns an Embedder producing vectors of dims dimensions.
func New(dims int) *Embedder {
	return &Embedder{Dims: dims}
}

func (e *Embedder) Name() string    { return "embedtest" }
func (e *Embedder) Dimensions() int { return e.Dims }

// Calls reports how many Embed calls were made.
func (e *Embedder) Calls() int { return int(e.calls.Load()) }

func (e *Embedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)
	if e.Fail {
		return nil, errors.New("embedtest: embedding unavailable")
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *Embedder) vector(text string) []float32 {
	vec := make([]float32, e.Dims)
	// Bias keeps the empty string away from the zero vector.
	vec[0] = 0.01
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()")
		var h uint32 = 2166136261
		for _, b := range []byte(word) {
			h ^= uint32(b)
			h *= 16777619
		}
		vec[int(h%uint32(e.Dims))] += 1
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
