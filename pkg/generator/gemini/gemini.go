// Package gemini implements a Generator on the Gemini API via google.golang.org/genai.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/papercomputeco/resumini/pkg/generator"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

type Config struct {
	// APIKey authenticates with the Gemini API. When empty, the client reads
	// GEMINI_API_KEY or GOOGLE_API_KEY from the environment.
	APIKey string
	Model  string

	// BaseURL overrides the API endpoint.
	BaseURL string
}

type Generator struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, c Config) (*Generator, error) {
	cc := &genai.ClientConfig{
		APIKey:  c.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: c.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("%w: creating gemini client: %v", generator.ErrNotConfigured, err)
	}

	model := c.Model
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		client: client,
		model:  model,
	}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate: %w", generator.ErrGeneration, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: gemini returned no text", generator.ErrGeneration)
	}
	return text, nil
}

var _ generator.Generator = (*Generator)(nil)
