package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/resumini/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the RESUMINI_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (RESUMINI_API_LISTEN, RESUMINI_GENERATOR_MODEL, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: RESUMINI_VECTOR_STORE_PROVIDER, RESUMINI_INBOX_DIR, etc.
	v.SetEnvPrefix("RESUMINI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// API
	v.SetDefault("api.listen", d.API.Listen)
	v.SetDefault("api.request_timeout", d.API.RequestTimeout)
	v.SetDefault("api.max_upload_mb", d.API.MaxUploadMB)

	// Client
	v.SetDefault("client.api_target", d.Client.APITarget)

	// Vector store
	v.SetDefault("vector_store.provider", d.VectorStore.Provider)
	v.SetDefault("vector_store.target", d.VectorStore.Target)
	v.SetDefault("vector_store.max_vectors", d.VectorStore.MaxVectors)

	// Embedding
	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.target", d.Embedding.Target)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)

	// Generator
	v.SetDefault("generator.provider", d.Generator.Provider)
	v.SetDefault("generator.target", d.Generator.Target)
	v.SetDefault("generator.model", d.Generator.Model)
	v.SetDefault("generator.retries", d.Generator.Retries)

	v.SetDefault("chunking.size", d.Chunking.Size)
	v.SetDefault("chunking.overlap", d.Chunking.Overlap)
	v.SetDefault("retrieval.top_k", d.Retrieval.TopK)

	// Scoring
	v.SetDefault("scoring.keywords", d.Scoring.Keywords)
	v.SetDefault("scoring.sections", d.Scoring.Sections)
	v.SetDefault("scoring.min_words", d.Scoring.MinWords)
	v.SetDefault("scoring.max_words", d.Scoring.MaxWords)
	v.SetDefault("scoring.length_fallback", d.Scoring.LengthFallback)

	v.SetDefault("renderer.latex_command", d.Renderer.LatexCommand)
	v.SetDefault("renderer.timeout", d.Renderer.Timeout)

	// Artifacts
	v.SetDefault("artifacts.provider", d.Artifacts.Provider)
	v.SetDefault("artifacts.target", d.Artifacts.Target)
	v.SetDefault("artifacts.endpoint", d.Artifacts.Endpoint)
	v.SetDefault("artifacts.region", d.Artifacts.Region)

	// Events
	v.SetDefault("events.provider", d.Events.Provider)
	v.SetDefault("events.target", d.Events.Target)
	v.SetDefault("events.topic", d.Events.Topic)

	v.SetDefault("inbox.dir", d.Inbox.Dir)
	v.SetDefault("inbox.workers", d.Inbox.Workers)
}
