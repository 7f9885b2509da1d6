// Package generatorutils builds the configured Generator.
package generatorutils

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/papercomputeco/resumini/pkg/generator"
	"github.com/papercomputeco/resumini/pkg/generator/anthropic"
	"github.com/papercomputeco/resumini/pkg/generator/gemini"
	"github.com/papercomputeco/resumini/pkg/generator/ollama"
	"github.com/papercomputeco/resumini/pkg/generator/openai"
)

type NewGeneratorOpts struct {
	ProviderType string
	TargetURL    string
	Model        string

	// APIKey takes precedence over the provider's environment variable.
	APIKey string

	Timeout time.Duration
	Retries int
}

// NewGenerator builds a generator for the provider. Hosted providers resolve
// their API key from opts first and the environment second.
func NewGenerator(ctx context.Context, o *NewGeneratorOpts) (generator.Generator, error) {
	provider := strings.ToLower(o.ProviderType)
	apiKey := o.APIKey
	if apiKey == "" {
		apiKey = ResolveAPIKeyFromEnv(provider)
	}

	var (
		g   generator.Generator
		err error
	)
	switch provider {
	case "gemini", "":
		g, err = gemini.New(ctx, gemini.Config{
			APIKey:  apiKey,
			Model:   o.Model,
			BaseURL: o.TargetURL,
		})
	case "ollama":
		g = ollama.New(ollama.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			Timeout: o.Timeout,
		})
	case "openai":
		g, err = openai.New(openai.Config{
			APIKey:  apiKey,
			Model:   o.Model,
			BaseURL: o.TargetURL,
			Timeout: o.Timeout,
		})
	case "anthropic":
		g, err = anthropic.New(anthropic.Config{
			APIKey:  apiKey,
			Model:   o.Model,
			BaseURL: o.TargetURL,
			Timeout: o.Timeout,
		})
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", o.ProviderType)
	}
	if err != nil {
		return nil, err
	}

	return generator.WithRetry(g, o.Retries, 500*time.Millisecond), nil
}

// ResolveAPIKeyFromEnv returns the conventional API key variable for provider.
func ResolveAPIKeyFromEnv(provider string) string {
	switch provider {
	case "gemini", "":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}
