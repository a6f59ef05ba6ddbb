package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderGoogle    ProviderType = "google"
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOllama    ProviderType = "ollama"
)

// Config is the top-level docassist configuration, corresponding to .docassist.yml.
type Config struct {
	Provider          ProviderType    `yaml:"provider" koanf:"provider"`
	Model             string          `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType    `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string          `yaml:"embedding_model" koanf:"embedding_model"`
	Temperature       float64         `yaml:"temperature" koanf:"temperature"`
	DocumentsDir      string          `yaml:"documents_dir" koanf:"documents_dir"`
	StoreDir          string          `yaml:"store_dir" koanf:"store_dir"`
	Include           []string        `yaml:"include" koanf:"include"`
	Chunking          ChunkingConfig  `yaml:"chunking" koanf:"chunking"`
	Retrieval         RetrievalConfig `yaml:"retrieval" koanf:"retrieval"`
	History           HistoryConfig   `yaml:"history" koanf:"history"`
	MaxConcurrency    int             `yaml:"max_concurrency" koanf:"max_concurrency"`
	RequestsPerMinute int             `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	Log               LogConfig       `yaml:"log" koanf:"log"`
}

// ChunkingConfig controls how extracted document text is split before embedding.
type ChunkingConfig struct {
	ChunkSize  int      `yaml:"chunk_size" koanf:"chunk_size"`
	Overlap    int      `yaml:"overlap" koanf:"overlap"`
	Separators []string `yaml:"separators" koanf:"separators"`
}

// RetrievalConfig holds the fan-out used by each retrieving handler.
type RetrievalConfig struct {
	RagK       int `yaml:"rag_k" koanf:"rag_k"`
	SummarizeK int `yaml:"summarize_k" koanf:"summarize_k"`
	FormatK    int `yaml:"format_k" koanf:"format_k"`
}

// HistoryConfig is the context window applied to conversation history.
type HistoryConfig struct {
	MaxTurns int `yaml:"max_turns" koanf:"max_turns"`
	MaxChars int `yaml:"max_chars" koanf:"max_chars"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	File  string `yaml:"file" koanf:"file"`
	JSON  bool   `yaml:"json" koanf:"json"`
}
