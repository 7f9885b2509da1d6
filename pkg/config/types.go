package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent resumini configuration stored as
// config.toml in the .resumini/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	API         APIConfig         `toml:"api"`
	Client      ClientConfig      `toml:"client"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Generator   GeneratorConfig   `toml:"generator"`
	Chunking    ChunkingConfig    `toml:"chunking"`
	Retrieval   RetrievalConfig   `toml:"retrieval"`
	Scoring     ScoringConfig     `toml:"scoring"`
	Renderer    RendererConfig    `toml:"renderer"`
	Artifacts   ArtifactsConfig   `toml:"artifacts"`
	Events      EventsConfig      `toml:"events"`
	Inbox       InboxConfig       `toml:"inbox"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen         string `toml:"listen,omitempty"`
	RequestTimeout string `toml:"request_timeout,omitempty"`
	MaxUploadMB    int    `toml:"max_upload_mb,omitempty"`
}

// ClientConfig holds settings for CLI commands that talk to a running API
// server (e.g. resumini ask). Values are full URLs.
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// VectorStoreConfig holds vector store settings.
type VectorStoreConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	MaxVectors int    `toml:"max_vectors,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// GeneratorConfig holds the LLM provider settings.
type GeneratorConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	Model    string `toml:"model,omitempty"`
	Retries  int    `toml:"retries,omitempty"`
}

type ChunkingConfig struct {
	Size    int `toml:"size,omitempty"`
	Overlap int `toml:"overlap,omitempty"`
}

type RetrievalConfig struct {
	TopK int `toml:"top_k,omitempty"`
}

// ScoringConfig holds the heuristic ATS scorer settings. Keywords and
// Sections are comma separated lists.
type ScoringConfig struct {
	Keywords       string `toml:"keywords,omitempty"`
	Sections       string `toml:"sections,omitempty"`
	MinWords       int    `toml:"min_words,omitempty"`
	MaxWords       int    `toml:"max_words,omitempty"`
	LengthFallback int    `toml:"length_fallback,omitempty"`
}

type RendererConfig struct {
	LatexCommand string `toml:"latex_command,omitempty"`
	Timeout      string `toml:"timeout,omitempty"`
}

// ArtifactsConfig selects where rendered documents are written.
type ArtifactsConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	Endpoint string `toml:"endpoint,omitempty"`
	Region   string `toml:"region,omitempty"`
}

// EventsConfig selects the publisher for resume stored events.
type EventsConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	Topic    string `toml:"topic,omitempty"`
}

// InboxConfig enables directory auto-ingest when Dir is set.
type InboxConfig struct {
	Dir     string `toml:"dir,omitempty"`
	Workers uint   `toml:"workers,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringKey(field func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

// intKey renders zero as "" so unset numeric keys read the same as unset
// strings.
func intKey(name string, field func(c *Config) *int) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *field(c) == 0 {
				return ""
			}
			return strconv.Itoa(*field(c))
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			if n < 0 {
				return fmt.Errorf("invalid value for %s: must not be negative", name)
			}
			*field(c) = n
			return nil
		},
	}
}

func uintKey(name string, field func(c *Config) *uint) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *field(c) == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(*field(c)), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = uint(n)
			return nil
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"api.listen":          stringKey(func(c *Config) *string { return &c.API.Listen }),
	"api.request_timeout": stringKey(func(c *Config) *string { return &c.API.RequestTimeout }),
	"api.max_upload_mb":   intKey("api.max_upload_mb", func(c *Config) *int { return &c.API.MaxUploadMB }),

	"client.api_target": stringKey(func(c *Config) *string { return &c.Client.APITarget }),

	"vector_store.provider":    stringKey(func(c *Config) *string { return &c.VectorStore.Provider }),
	"vector_store.target":      stringKey(func(c *Config) *string { return &c.VectorStore.Target }),
	"vector_store.max_vectors": intKey("vector_store.max_vectors", func(c *Config) *int { return &c.VectorStore.MaxVectors }),

	"embedding.provider":   stringKey(func(c *Config) *string { return &c.Embedding.Provider }),
	"embedding.target":     stringKey(func(c *Config) *string { return &c.Embedding.Target }),
	"embedding.model":      stringKey(func(c *Config) *string { return &c.Embedding.Model }),
	"embedding.dimensions": uintKey("embedding.dimensions", func(c *Config) *uint { return &c.Embedding.Dimensions }),

	"generator.provider": stringKey(func(c *Config) *string { return &c.Generator.Provider }),
	"generator.target":   stringKey(func(c *Config) *string { return &c.Generator.Target }),
	"generator.model":    stringKey(func(c *Config) *string { return &c.Generator.Model }),
	"generator.retries":  intKey("generator.retries", func(c *Config) *int { return &c.Generator.Retries }),

	"chunking.size":    intKey("chunking.size", func(c *Config) *int { return &c.Chunking.Size }),
	"chunking.overlap": intKey("chunking.overlap", func(c *Config) *int { return &c.Chunking.Overlap }),

	"retrieval.top_k": intKey("retrieval.top_k", func(c *Config) *int { return &c.Retrieval.TopK }),

	"scoring.keywords":        stringKey(func(c *Config) *string { return &c.Scoring.Keywords }),
	"scoring.sections":        stringKey(func(c *Config) *string { return &c.Scoring.Sections }),
	"scoring.min_words":       intKey("scoring.min_words", func(c *Config) *int { return &c.Scoring.MinWords }),
	"scoring.max_words":       intKey("scoring.max_words", func(c *Config) *int { return &c.Scoring.MaxWords }),
	"scoring.length_fallback": intKey("scoring.length_fallback", func(c *Config) *int { return &c.Scoring.LengthFallback }),

	"renderer.latex_command": stringKey(func(c *Config) *string { return &c.Renderer.LatexCommand }),
	"renderer.timeout":       stringKey(func(c *Config) *string { return &c.Renderer.Timeout }),

	"artifacts.provider": stringKey(func(c *Config) *string { return &c.Artifacts.Provider }),
	"artifacts.target":   stringKey(func(c *Config) *string { return &c.Artifacts.Target }),
	"artifacts.endpoint": stringKey(func(c *Config) *string { return &c.Artifacts.Endpoint }),
	"artifacts.region":   stringKey(func(c *Config) *string { return &c.Artifacts.Region }),

	"events.provider": stringKey(func(c *Config) *string { return &c.Events.Provider }),
	"events.target":   stringKey(func(c *Config) *string { return &c.Events.Target }),
	"events.topic":    stringKey(func(c *Config) *string { return &c.Events.Topic }),

	"inbox.dir":     stringKey(func(c *Config) *string { return &c.Inbox.Dir }),
	"inbox.workers": uintKey("inbox.workers", func(c *Config) *uint { return &c.Inbox.Workers }),
}
