package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/resumini/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

type Configer struct {
	ddm        *dotdir.Manager
	targetPath string
}

func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{}

	cfger.ddm = dotdir.NewManager()
	target, err := cfger.ddm.Target(override)
	if err != nil {
		return nil, err
	}

	// If no .resumini/ directory was resolved, targetPath stays empty;
	// LoadConfig will return defaults and SaveConfig will error clearly.
	if target == "" {
		return cfger, nil
	}

	path := filepath.Join(target, configFile)
	_, err = os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfger.targetPath = path

	return cfger, nil
}

// orderedKeys lists config keys in TOML section order.
var orderedKeys = []string{
	"api.listen",
	"api.request_timeout",
	"api.max_upload_mb",
	"client.api_target",
	"vector_store.provider",
	"vector_store.target",
	"vector_store.max_vectors",
	"embedding.provider",
	"embedding.target",
	"embedding.model",
	"embedding.dimensions",
	"generator.provider",
	"generator.target",
	"generator.model",
	"generator.retries",
	"chunking.size",
	"chunking.overlap",
	"retrieval.top_k",
	"scoring.keywords",
	"scoring.sections",
	"scoring.min_words",
	"scoring.max_words",
	"scoring.length_fallback",
	"renderer.latex_command",
	"renderer.timeout",
	"artifacts.provider",
	"artifacts.target",
	"artifacts.endpoint",
	"artifacts.region",
	"events.provider",
	"events.target",
	"events.topic",
	"inbox.dir",
	"inbox.workers",
}

// ValidConfigKeys returns the list of all supported configuration key names
// in a stable order matching the TOML section layout.
func ValidConfigKeys() []string {
	result := make([]string, 0, len(configKeys))
	seen := make(map[string]bool, len(configKeys))
	for _, k := range orderedKeys {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
			seen[k] = true
		}
	}
	for k := range configKeys {
		if !seen[k] {
			result = append(result, k)
		}
	}
	return result
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig loads the configuration from config.toml in the target
// .resumini/ directory. If the file does not exist, returns
// NewDefaultConfig() so callers always receive a fully-populated Config.
// Fields explicitly set in the file override the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

func orString(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

func orInt[T int | uint](field *T, def T) {
	if *field == 0 {
		*field = def
	}
}

// applyDefaults fills zero-value fields in cfg with values from NewDefaultConfig().
func applyDefaults(cfg *Config) {
	d := NewDefaultConfig()

	orInt(&cfg.Version, d.Version)

	orString(&cfg.API.Listen, d.API.Listen)
	orString(&cfg.API.RequestTimeout, d.API.RequestTimeout)
	orInt(&cfg.API.MaxUploadMB, d.API.MaxUploadMB)

	orString(&cfg.Client.APITarget, d.Client.APITarget)

	orString(&cfg.VectorStore.Provider, d.VectorStore.Provider)

	orString(&cfg.Embedding.Provider, d.Embedding.Provider)
	orString(&cfg.Embedding.Target, d.Embedding.Target)
	orString(&cfg.Embedding.Model, d.Embedding.Model)
	orInt(&cfg.Embedding.Dimensions, d.Embedding.Dimensions)

	orString(&cfg.Generator.Provider, d.Generator.Provider)
	orString(&cfg.Generator.Model, d.Generator.Model)
	orInt(&cfg.Generator.Retries, d.Generator.Retries)

	orInt(&cfg.Chunking.Size, d.Chunking.Size)
	orInt(&cfg.Chunking.Overlap, d.Chunking.Overlap)
	orInt(&cfg.Retrieval.TopK, d.Retrieval.TopK)

	orString(&cfg.Scoring.Keywords, d.Scoring.Keywords)
	orString(&cfg.Scoring.Sections, d.Scoring.Sections)
	orInt(&cfg.Scoring.MinWords, d.Scoring.MinWords)
	orInt(&cfg.Scoring.MaxWords, d.Scoring.MaxWords)
	orInt(&cfg.Scoring.LengthFallback, d.Scoring.LengthFallback)

	orString(&cfg.Renderer.LatexCommand, d.Renderer.LatexCommand)
	orString(&cfg.Renderer.Timeout, d.Renderer.Timeout)

	orString(&cfg.Artifacts.Provider, d.Artifacts.Provider)
	orString(&cfg.Events.Provider, d.Events.Provider)
	orInt(&cfg.Inbox.Workers, d.Inbox.Workers)
}

// SaveConfig persists the configuration to config.toml in the target .resumini/ directory.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets the given key to the given value, and saves it.
// Returns an error if the key is not a valid config key.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the string representation of the given key.
// Returns an error if the key is not a valid config key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}

// PresetConfig returns a Config with defaults for the named generator preset.
// Supported presets: "gemini", "openai", "anthropic", "ollama", "offline".
func PresetConfig(name string) (*Config, error) {
	cfg := NewDefaultConfig()

	switch strings.ToLower(name) {
	case "gemini":
		cfg.Generator = GeneratorConfig{Provider: "gemini", Model: "gemini-2.5-flash"}
		cfg.Embedding = EmbeddingConfig{Provider: "gemini", Model: "gemini-embedding-001", Dimensions: 768}

	case "openai":
		cfg.Generator = GeneratorConfig{Provider: "openai", Target: "https://api.openai.com", Model: "gpt-4o-mini"}

	case "anthropic":
		cfg.Generator = GeneratorConfig{Provider: "anthropic", Target: "https://api.anthropic.com", Model: "claude-haiku-4-5-20251001"}

	case "ollama":
		cfg.Generator = GeneratorConfig{Provider: "ollama", Target: "http://localhost:11434", Model: "llama3.2"}

	case "offline":
		cfg.Generator = GeneratorConfig{Provider: "ollama", Target: "http://localhost:11434", Model: "llama3.2"}
		cfg.Embedding = EmbeddingConfig{Provider: "hashing", Dimensions: defaultEmbeddingDimensions}
		cfg.VectorStore = VectorStoreConfig{Provider: "sqlite", Target: "vectors.db"}

	default:
		return nil, fmt.Errorf("unknown preset: %q (available: %s)", name, strings.Join(ValidPresetNames(), ", "))
	}

	cfg.Generator.Retries = defaultGeneratorRetries
	return cfg, nil
}

// ValidPresetNames returns the list of recognized preset names.
func ValidPresetNames() []string {
	return []string{"gemini", "openai", "anthropic", "ollama", "offline"}
}

// ParseConfigTOML parses raw TOML bytes into a Config.
// Returns an error if the version field is present and not equal to CurrentV.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}
