// Package servecmder provides the serve command that runs the resumini API
// server, its MCP endpoint and the optional inbox watcher.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/resumini/api"
	"github.com/papercomputeco/resumini/api/mcp"
	"github.com/papercomputeco/resumini/pkg/artifact"
	artifactutils "github.com/papercomputeco/resumini/pkg/artifact/utils"
	"github.com/papercomputeco/resumini/pkg/ats"
	"github.com/papercomputeco/resumini/pkg/chunker"
	"github.com/papercomputeco/resumini/pkg/config"
	"github.com/papercomputeco/resumini/pkg/credentials"
	"github.com/papercomputeco/resumini/pkg/dotdir"
	"github.com/papercomputeco/resumini/pkg/embeddings"
	embeddingutils "github.com/papercomputeco/resumini/pkg/embeddings/utils"
	eventstreamutils "github.com/papercomputeco/resumini/pkg/eventstream/utils"
	"github.com/papercomputeco/resumini/pkg/extract"
	"github.com/papercomputeco/resumini/pkg/generator"
	generatorutils "github.com/papercomputeco/resumini/pkg/generator/utils"
	"github.com/papercomputeco/resumini/pkg/inbox"
	"github.com/papercomputeco/resumini/pkg/logger"
	"github.com/papercomputeco/resumini/pkg/rag"
	"github.com/papercomputeco/resumini/pkg/render/docx"
	"github.com/papercomputeco/resumini/pkg/render/latex"
	"github.com/papercomputeco/resumini/pkg/tools"
	"github.com/papercomputeco/resumini/pkg/vector"
	vectorutils "github.com/papercomputeco/resumini/pkg/vector/utils"
)

type serveCommander struct {
	flags config.FlagSet

	listen string

	vectorStoreProvider string
	vectorStoreTarget   string

	embeddingProvider   string
	embeddingTarget     string
	embeddingModel      string
	embeddingDimensions uint

	generatorProvider string
	generatorTarget   string
	generatorModel    string

	topK         int
	latexCommand string

	artifactsProvider string
	artifactsTarget   string

	eventsProvider string
	eventsTarget   string

	inboxDir string

	configDir string
	debug     bool
	logger    *slog.Logger
	viper     *viper.Viper
}

var serveFlags = []string{
	config.FlagAPIListen,
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagGeneratorProv,
	config.FlagGeneratorTgt,
	config.FlagGeneratorModel,
	config.FlagTopK,
	config.FlagLatexCommand,
	config.FlagArtifactsProv,
	config.FlagArtifactsTgt,
	config.FlagEventsProv,
	config.FlagEventsTgt,
	config.FlagInboxDir,
}

const serveLongDesc string = `Run the resumini API server.

The server stores uploaded resumes in the configured vector store, scores them
against the ATS heuristic and uses the configured generator for summaries,
feedback, rewrites and question answering. An MCP endpoint is mounted at /mcp.

When --inbox-dir is set, resumes dropped into that directory are extracted
and stored automatically.

Settings are resolved from flags, RESUMINI_* environment variables,
config.toml and built-in defaults, in that order.

Examples:
  resumini serve
  resumini serve --listen :9000 --generator-provider ollama --generator-model llama3.2
  resumini serve --vector-store-provider sqlite --inbox-dir ~/resumes`

const serveShortDesc string = "Run the resumini API server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{flags: config.Flags}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, cmder.flags, serveFlags)
			cmder.viper = v
			cmder.configDir = configDir
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			cmder.loadFromViper()
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, cmder.flags, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, cmder.flags, config.FlagVectorStoreProv, &cmder.vectorStoreProvider)
	config.AddStringFlag(cmd, cmder.flags, config.FlagVectorStoreTgt, &cmder.vectorStoreTarget)
	config.AddStringFlag(cmd, cmder.flags, config.FlagEmbeddingProv, &cmder.embeddingProvider)
	config.AddStringFlag(cmd, cmder.flags, config.FlagEmbeddingTgt, &cmder.embeddingTarget)
	config.AddStringFlag(cmd, cmder.flags, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, cmder.flags, config.FlagEmbeddingDims, &cmder.embeddingDimensions)
	config.AddStringFlag(cmd, cmder.flags, config.FlagGeneratorProv, &cmder.generatorProvider)
	config.AddStringFlag(cmd, cmder.flags, config.FlagGeneratorTgt, &cmder.generatorTarget)
	config.AddStringFlag(cmd, cmder.flags, config.FlagGeneratorModel, &cmder.generatorModel)
	config.AddIntFlag(cmd, cmder.flags, config.FlagTopK, &cmder.topK)
	config.AddStringFlag(cmd, cmder.flags, config.FlagLatexCommand, &cmder.latexCommand)
	config.AddStringFlag(cmd, cmder.flags, config.FlagArtifactsProv, &cmder.artifactsProvider)
	config.AddStringFlag(cmd, cmder.flags, config.FlagArtifactsTgt, &cmder.artifactsTarget)
	config.AddStringFlag(cmd, cmder.flags, config.FlagEventsProv, &cmder.eventsProvider)
	config.AddStringFlag(cmd, cmder.flags, config.FlagEventsTgt, &cmder.eventsTarget)
	config.AddStringFlag(cmd, cmder.flags, config.FlagInboxDir, &cmder.inboxDir)

	return cmd
}

// loadFromViper copies the resolved values back onto the commander so flags,
// environment and config.toml all land in one place.
func (c *serveCommander) loadFromViper() {
	v := c.viper
	c.listen = v.GetString("api.listen")
	c.vectorStoreProvider = v.GetString("vector_store.provider")
	c.vectorStoreTarget = v.GetString("vector_store.target")
	c.embeddingProvider = v.GetString("embedding.provider")
	c.embeddingTarget = v.GetString("embedding.target")
	c.embeddingModel = v.GetString("embedding.model")
	c.embeddingDimensions = v.GetUint("embedding.dimensions")
	c.generatorProvider = v.GetString("generator.provider")
	c.generatorTarget = v.GetString("generator.target")
	c.generatorModel = v.GetString("generator.model")
	c.topK = v.GetInt("retrieval.top_k")
	c.latexCommand = v.GetString("renderer.latex_command")
	c.artifactsProvider = v.GetString("artifacts.provider")
	c.artifactsTarget = v.GetString("artifacts.target")
	c.eventsProvider = v.GetString("events.provider")
	c.eventsTarget = v.GetString("events.target")
	c.inboxDir = v.GetString("inbox.dir")
}

func (c *serveCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l, logFile, err := NewLogger(c.debug, c.configDir, os.Stdout)
	if err != nil {
		return err
	}
	defer logFile.Close()
	c.logger = l

	store, err := c.newVectorStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	embedder, err := c.newEmbedder(ctx)
	if err != nil {
		return err
	}
	defer embedder.Close()

	gen, err := c.newGenerator(ctx)
	if err != nil {
		return err
	}

	publisher, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		ProviderType: c.eventsProvider,
		Target:       c.eventsTarget,
		Topic:        c.viper.GetString("events.topic"),
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating event publisher: %w", err)
	}
	defer publisher.Close()

	artifacts, err := c.newArtifactStore(ctx)
	if err != nil {
		return err
	}

	engine, err := rag.NewEngine(rag.Config{
		Store:    store,
		Embedder: embedder,
		Chunking: chunker.Config{
			Size:    c.viper.GetInt("chunking.size"),
			Overlap: c.viper.GetInt("chunking.overlap"),
		},
		TopK:      c.topK,
		Publisher: publisher,
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating retrieval engine: %w", err)
	}

	scorer, err := NewScorer(c.viper)
	if err != nil {
		return err
	}

	rendererTimeout, err := parseDuration(c.viper.GetString("renderer.timeout"), latex.DefaultTimeout)
	if err != nil {
		return fmt.Errorf("parsing renderer.timeout: %w", err)
	}

	toolkit := tools.New(tools.Config{
		Generator: gen,
		LatexRenderer: latex.New(latex.Config{
			Command: c.latexCommand,
			Timeout: rendererTimeout,
		}, c.logger),
		DocRenderer: docx.New(docx.Config{Title: "Optimized Resume"}, c.logger),
		Artifacts:   artifacts,
		Logger:      c.logger,
	})

	extractor := extract.New(c.logger)

	mcpServer, err := mcp.NewServer(mcp.Config{
		Engine:    engine,
		Generator: gen,
		Scorer:    scorer,
		Tools:     toolkit,
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	requestTimeout, err := parseDuration(c.viper.GetString("api.request_timeout"), api.DefaultRequestTimeout)
	if err != nil {
		return fmt.Errorf("parsing api.request_timeout: %w", err)
	}

	apiServer, err := api.NewServer(api.Config{
		ListenAddr:     c.listen,
		RequestTimeout: requestTimeout,
		MaxUploadBytes: c.viper.GetInt("api.max_upload_mb") << 20,
		Engine:         engine,
		Generator:      gen,
		Extractor:      extractor,
		Scorer:         scorer,
		Tools:          toolkit,
		MCPHandler:     mcpServer.Handler(),
	}, c.logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	// Channel to capture errors from goroutines
	errChan := make(chan error, 2)

	if c.inboxDir != "" {
		pool, err := inbox.NewPool(&inbox.Config{
			Extractor:  extractor,
			Ingester:   engine,
			NumWorkers: c.viper.GetUint("inbox.workers"),
			Logger:     c.logger,
		})
		if err != nil {
			return fmt.Errorf("creating inbox pool: %w", err)
		}
		defer pool.Close()

		watcher, err := inbox.NewWatcher(inbox.WatcherConfig{
			Dir:    c.inboxDir,
			Pool:   pool,
			Logger: c.logger,
		})
		if err != nil {
			return fmt.Errorf("creating inbox watcher: %w", err)
		}

		go func() {
			if err := watcher.Run(ctx); err != nil {
				errChan <- fmt.Errorf("inbox watcher error: %w", err)
			}
		}()
	}

	c.logger.Info("starting api server",
		"api_addr", c.listen,
		"vector_store", c.vectorStoreProvider,
		"embedding_provider", c.embeddingProvider,
		"generator_provider", c.generatorProvider,
		"generator_available", gen != nil,
	)

	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
		if err := apiServer.Shutdown(); err != nil {
			c.logger.Warn("api server shutdown", "error", err)
		}
		return nil
	}
}

func (c *serveCommander) newVectorStore(ctx context.Context) (vector.Store, error) {
	target := c.vectorStoreTarget
	if c.vectorStoreProvider == "sqlite" || c.vectorStoreProvider == "sqlitevec" {
		resolved, err := c.resolveSQLitePath(target)
		if err != nil {
			return nil, err
		}
		target = resolved
	}

	store, err := vectorutils.NewVectorStore(ctx, &vectorutils.NewVectorStoreOpts{
		ProviderType: c.vectorStoreProvider,
		Target:       target,
		APIKey:       os.Getenv("QDRANT_API_KEY"),
		Dimensions:   c.embeddingDimensions,
		MaxVectors:   c.viper.GetInt("vector_store.max_vectors"),
		Logger:       c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}
	return store, nil
}

// LogFileName is the JSON log serve appends to inside the .resumini directory.
const LogFileName = "serve.log"

// NewLogger returns a logger that writes pretty output to stdout and JSON
// records to LogFileName in the resolved .resumini directory. The caller
// closes the returned file.
func NewLogger(debug bool, configDir string, stdout io.Writer) (*slog.Logger, *os.File, error) {
	dir, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving resumini dir: %w", err)
	}

	logFile, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	return logger.Multi(
		logger.New(logger.WithDebug(debug), logger.WithPretty(true), logger.WithWriter(stdout)),
		logger.New(logger.WithDebug(debug), logger.WithJSON(true), logger.WithWriter(logFile)),
	), logFile, nil
}

// resolveSQLitePath places relative sqlite paths inside the .resumini
// directory.
func (c *serveCommander) resolveSQLitePath(target string) (string, error) {
	if target == ":memory:" || filepath.IsAbs(target) {
		return target, nil
	}
	if target == "" {
		target = "vectors.db"
	}

	dir, err := dotdir.NewManager().Target(c.configDir)
	if err != nil {
		return "", fmt.Errorf("resolving resumini dir: %w", err)
	}
	return filepath.Join(dir, target), nil
}

func (c *serveCommander) newEmbedder(ctx context.Context) (embeddings.Embedder, error) {
	embedder, err := embeddingutils.NewEmbedder(ctx, &embeddingutils.NewEmbedderOpts{
		ProviderType: c.embeddingProvider,
		TargetURL:    c.embeddingTarget,
		Model:        c.embeddingModel,
		Dimensions:   c.embeddingDimensions,
		APIKey:       c.resolveAPIKey(c.embeddingProvider),
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return embedder, nil
}

// newGenerator returns a nil generator when the provider lacks credentials so
// the server still stores and scores resumes.
func (c *serveCommander) newGenerator(ctx context.Context) (generator.Generator, error) {
	gen, err := generatorutils.NewGenerator(ctx, &generatorutils.NewGeneratorOpts{
		ProviderType: c.generatorProvider,
		TargetURL:    c.generatorTarget,
		Model:        c.generatorModel,
		APIKey:       c.resolveAPIKey(c.generatorProvider),
		Retries:      c.viper.GetInt("generator.retries"),
	})
	if errors.Is(err, generator.ErrNotConfigured) {
		c.logger.Warn("generator unavailable, AI endpoints will answer 503",
			"provider", c.generatorProvider,
			"error", err,
		)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}
	return gen, nil
}

// resolveAPIKey checks the provider's environment variables, then
// credentials.toml.
func (c *serveCommander) resolveAPIKey(provider string) string {
	if key := generatorutils.ResolveAPIKeyFromEnv(provider); key != "" {
		return key
	}
	if !credentials.IsSupportedProvider(provider) {
		return ""
	}

	mgr, err := credentials.NewManager(c.configDir)
	if err != nil {
		c.logger.Warn("could not open credentials", "error", err)
		return ""
	}
	key, err := mgr.GetKey(provider)
	if err != nil {
		c.logger.Warn("could not read credentials", "provider", provider, "error", err)
		return ""
	}
	return key
}

func (c *serveCommander) newArtifactStore(ctx context.Context) (artifact.Store, error) {
	store, err := artifactutils.NewStore(ctx, &artifactutils.NewStoreOpts{
		ProviderType: c.artifactsProvider,
		Target:       c.artifactsTarget,
		Endpoint:     c.viper.GetString("artifacts.endpoint"),
		AccountID:    os.Getenv("R2_ACCOUNT_ID"),
		Region:       c.viper.GetString("artifacts.region"),
		AccessKey:    os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretKey:    os.Getenv("AWS_SECRET_ACCESS_KEY"),
		Logger:       c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating artifact store: %w", err)
	}
	return store, nil
}

// NewScorer builds the ATS scorer from the scoring.* settings. Keywords and
// sections are comma separated lists.
func NewScorer(v *viper.Viper) (*ats.Scorer, error) {
	cfg := ats.NewDefaultConfig()
	if keywords := splitList(v.GetString("scoring.keywords")); len(keywords) > 0 {
		cfg.Keywords = keywords
	}
	if sections := splitList(v.GetString("scoring.sections")); len(sections) > 0 {
		cfg.Sections = sections
	}
	if n := v.GetInt("scoring.min_words"); n > 0 {
		cfg.MinWords = n
	}
	if n := v.GetInt("scoring.max_words"); n > 0 {
		cfg.MaxWords = n
	}
	if n := v.GetInt("scoring.length_fallback"); n > 0 {
		cfg.LengthFallback = float64(n)
	}

	scorer, err := ats.NewScorer(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating ats scorer: %w", err)
	}
	return scorer, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}
