package config

const (
	defaultAPIListen      = ":8000"
	defaultRequestTimeout = "2m"
	defaultMaxUploadMB    = 10

	defaultClientAPITarget = "http://localhost:8000"

	defaultVectorProvider = "memory"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "all-minilm"
	defaultEmbeddingDimensions = 384

	defaultGeneratorProvider = "gemini"
	defaultGeneratorModel    = "gemini-2.5-flash"
	defaultGeneratorRetries  = 2

	defaultChunkSize    = 500
	defaultChunkOverlap = 80
	defaultTopK         = 4

	defaultScoringKeywords = "python,machine learning,ai,sql,flask,tensorflow"
	defaultScoringSections = "education,skills,experience,projects"
	defaultMinWords        = 400
	defaultMaxWords        = 900
	defaultLengthFallback  = 70

	defaultLatexCommand    = "pdflatex"
	defaultRendererTimeout = "60s"

	defaultArtifactsProvider = "none"
	defaultEventsProvider    = "nop"
	defaultInboxWorkers      = 3
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen:         defaultAPIListen,
			RequestTimeout: defaultRequestTimeout,
			MaxUploadMB:    defaultMaxUploadMB,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Generator: GeneratorConfig{
			Provider: defaultGeneratorProvider,
			Model:    defaultGeneratorModel,
			Retries:  defaultGeneratorRetries,
		},
		Chunking: ChunkingConfig{
			Size:    defaultChunkSize,
			Overlap: defaultChunkOverlap,
		},
		Retrieval: RetrievalConfig{
			TopK: defaultTopK,
		},
		Scoring: ScoringConfig{
			Keywords:       defaultScoringKeywords,
			Sections:       defaultScoringSections,
			MinWords:       defaultMinWords,
			MaxWords:       defaultMaxWords,
			LengthFallback: defaultLengthFallback,
		},
		Renderer: RendererConfig{
			LatexCommand: defaultLatexCommand,
			Timeout:      defaultRendererTimeout,
		},
		Artifacts: ArtifactsConfig{
			Provider: defaultArtifactsProvider,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
		},
		Inbox: InboxConfig{
			Workers: defaultInboxWorkers,
		},
	}
}
