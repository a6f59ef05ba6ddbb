package config

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = ".docassist.yml"

// ModelPreset describes the default chat and embedding models for a provider.
type ModelPreset struct {
	Model          string
	EmbeddingModel string
}

var modelPresets = map[ProviderType]ModelPreset{
	ProviderGoogle:    {Model: "gemini-2.5-flash", EmbeddingModel: "text-embedding-004"},
	ProviderOpenAI:    {Model: "gpt-4o-mini", EmbeddingModel: "text-embedding-3-small"},
	ProviderAnthropic: {Model: "claude-haiku-4-5-20251001", EmbeddingModel: "text-embedding-3-small"},
	ProviderOllama:    {Model: "llama3", EmbeddingModel: "nomic-embed-text"},
}

// DefaultSeparators are the preferred split boundaries, coarsest first.
// The trailing empty separator means "hard cut at chunk_size".
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderGoogle,
		Model:             "gemini-2.5-flash",
		EmbeddingProvider: ProviderGoogle,
		EmbeddingModel:    "text-embedding-004",
		Temperature:       0,
		DocumentsDir:      "documents",
		StoreDir:          "chroma_db",
		Include:           []string{"*.pdf"},
		Chunking: ChunkingConfig{
			ChunkSize:  800,
			Overlap:    150,
			Separators: append([]string(nil), DefaultSeparators...),
		},
		Retrieval: RetrievalConfig{
			RagK:       5,
			SummarizeK: 10,
			FormatK:    5,
		},
		History: HistoryConfig{
			MaxTurns: 6,
			MaxChars: 200,
		},
		MaxConcurrency: 4,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// GetPreset returns the model preset for the given provider.
// Returns the Google preset if the provider is unknown.
func GetPreset(provider ProviderType) ModelPreset {
	if p, ok := modelPresets[provider]; ok {
		return p
	}
	return modelPresets[ProviderGoogle]
}
