package knowledge

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder turns text into a vector for similarity search. Implementations
// must be deterministic for the same input.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// HashEmbedder generates deterministic embeddings from a text hash. It has no
// semantic understanding and exists so the knowledge base works without a
// local embedding model; swap in a real Embedder for production retrieval
// quality.
type HashEmbedder struct {
	dimensions int
}

// NewHashEmbedder creates a hash-based embedder.
func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{
		dimensions: 384, // Match all-MiniLM-L6-v2 dimensions
	}
}

// Embed creates a deterministic embedding from text.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))

	embedding := make([]float32, e.dimensions)
	seed := h.Sum64()
	for i := 0; i < e.dimensions; i++ {
		// LCG keyed by the text hash
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}

	return normalize(embedding), nil
}

// Dimensions returns the embedding size.
func (e *HashEmbedder) Dimensions() int {
	return e.dimensions
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = float32(math.Sqrt(float64(norm)))
	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = v / norm
	}
	return normalized
}
