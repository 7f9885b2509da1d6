// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"context"
	"fmt"

	"github.com/papercomputeco/resumini/pkg/embeddings"
	"github.com/papercomputeco/resumini/pkg/embeddings/gemini"
	"github.com/papercomputeco/resumini/pkg/embeddings/hashing"
	"github.com/papercomputeco/resumini/pkg/embeddings/ollama"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	Dimensions   uint
	APIKey       string
}

func NewEmbedder(ctx context.Context, o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	case "gemini":
		return gemini.NewEmbedder(ctx, gemini.EmbedderConfig{
			APIKey:     o.APIKey,
			Model:      o.Model,
			Dimensions: int(o.Dimensions),
		})
	case "hashing":
		return hashing.NewEmbedder(int(o.Dimensions))
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
