package similarity

import (
	"context"
	"math"
)

// Embedder turns a text into a mean-pooled, L2-normalized embedding
// vector. Implementations must be safe for sequential reuse across many
// Embed calls for the lifetime of one worker.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Provider lazily constructs an Embedder. Load may be slow (model
// download, remote warm-up); it reports fractional progress in [0,1]
// through onProgress as it goes. Load is called at most once per
// worker.
type Provider interface {
	Load(ctx context.Context, onProgress func(fraction float64)) (Embedder, error)
}

// Dot computes the cosine similarity of two pre-normalized embeddings
// as a plain dot product. Norms are not recomputed: both inputs must
// already be unit length. Mismatched lengths yield 0.
func Dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Normalize scales v to unit length in place and returns it. A zero
// vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return v
	}

	inv := 1 / math.Sqrt(sumSq)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return v
}
