// Package embeddings defines the text embedding collaborator used to index
// and query resume chunks.
package embeddings

import (
	"context"
	"fmt"

	"github.com/papercomputeco/resumini/pkg/vector"
)

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}

// BatchEmbedder is implemented by embedders that can embed several texts in
// one round trip.
type BatchEmbedder interface {
	Embedder

	// EmbedBatch returns one embedding per text, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedAll embeds texts in order, batching when the embedder supports it.
func EmbedAll(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	if b, ok := e.(BatchEmbedder); ok {
		vectors, err := b.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("%w: got %d embeddings for %d texts", vector.ErrEmbedding, len(vectors), len(texts))
		}
		return vectors, nil
	}

	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		vectors[i] = v
	}
	return vectors, nil
}
