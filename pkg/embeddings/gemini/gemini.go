// Package gemini implements pkg/embeddings' Embedder on the Gemini embedding API.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/papercomputeco/resumini/pkg/embeddings"
	"github.com/papercomputeco/resumini/pkg/vector"
)

// DefaultEmbeddingModel is the default Gemini embedding model.
const DefaultEmbeddingModel = "gemini-embedding-001"

// EmbedderConfig holds configuration for the Gemini embedder.
type EmbedderConfig struct {
	// APIKey authenticates with the Gemini API. When empty, the client reads
	// GEMINI_API_KEY or GOOGLE_API_KEY from the environment.
	APIKey string

	// Model defaults to DefaultEmbeddingModel.
	Model string

	// Dimensions truncates the output embedding when set. The store fixes its
	// dimension from the first add, so this must stay stable across runs.
	Dimensions int
}

// Embedder wraps the genai Models.EmbedContent API.
type Embedder struct {
	client *genai.Client
	model  string
	config *genai.EmbedContentConfig
}

// NewEmbedder creates a Gemini embedder.
func NewEmbedder(ctx context.Context, cfg EmbedderConfig) (*Embedder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating gemini client: %v", vector.ErrEmbedding, err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultEmbeddingModel
	}

	embedCfg := &genai.EmbedContentConfig{}
	if cfg.Dimensions > 0 {
		dims := int32(cfg.Dimensions)
		embedCfg.OutputDimensionality = &dims
	}

	return &Embedder{
		client: client,
		model:  model,
		config: embedCfg,
	}, nil
}

// Embed converts text into a vector embedding.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds texts with a single EmbedContent call.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, e.config)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini embed: %v", vector.ErrEmbedding, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: gemini returned %d embeddings, expected %d", vector.ErrEmbedding, len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("%w: gemini returned an empty embedding at %d", vector.ErrEmbedding, i)
		}
		out[i] = emb.Values
	}
	return out, nil
}

// Close is a no-op; the genai client holds no closable resources.
func (e *Embedder) Close() error {
	return nil
}

var _ embeddings.BatchEmbedder = (*Embedder)(nil)
