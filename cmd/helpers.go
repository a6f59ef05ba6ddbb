package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/doc-assistant/internal/config"
	"github.com/ziadkadry99/doc-assistant/internal/conversation"
	"github.com/ziadkadry99/doc-assistant/internal/corpus"
	"github.com/ziadkadry99/doc-assistant/internal/embeddings"
	"github.com/ziadkadry99/doc-assistant/internal/handlers"
	"github.com/ziadkadry99/doc-assistant/internal/ingest"
	"github.com/ziadkadry99/doc-assistant/internal/intent"
	"github.com/ziadkadry99/doc-assistant/internal/llm"
	"github.com/ziadkadry99/doc-assistant/internal/logging"
	"github.com/ziadkadry99/doc-assistant/internal/progress"
	"github.com/ziadkadry99/doc-assistant/internal/retriever"
	"github.com/ziadkadry99/doc-assistant/internal/router"
)

// queryEmbeddingTTL bounds how long a query embedding is reused.
const queryEmbeddingTTL = 30 * time.Minute

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docassist init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Options{Level: level, File: cfg.Log.File, JSON: cfg.Log.JSON})
}

// createLLMProviderFromConfig creates the text generation provider,
// throttled to the configured request rate.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	p, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	if cfg.RequestsPerMinute > 0 {
		p = llm.NewRateLimitedProvider(p, cfg.RequestsPerMinute)
	}
	return p, nil
}

// createEmbedderFromConfig creates the embedder shared by ingestion and
// queries. Query embeddings are cached; the ingestion pipeline bypasses the
// cache.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	e, err := embeddings.NewEmbedder(string(cfg.EmbeddingProviderOrDefault()), cfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}
	if cfg.RequestsPerMinute > 0 {
		e = embeddings.NewRateLimitedEmbedder(e, cfg.RequestsPerMinute)
	}
	return embeddings.NewCachedEmbedder(e, queryEmbeddingTTL), nil
}

func newPipeline(cfg *config.Config, embedder embeddings.Embedder, logger *zap.Logger, reporter progress.Reporter) *ingest.Pipeline {
	return ingest.New(embedder,
		ingest.WithSplitter(ingest.Splitter{
			ChunkSize:  cfg.Chunking.ChunkSize,
			Overlap:    cfg.Chunking.Overlap,
			Separators: cfg.Chunking.Separators,
		}),
		ingest.WithInclude(cfg.Include),
		ingest.WithConcurrency(cfg.MaxConcurrency),
		ingest.WithLogger(logger),
		ingest.WithReporter(reporter),
	)
}

// assistant is everything a query-answering command needs.
type assistant struct {
	cfg      *config.Config
	logger   *zap.Logger
	embedder embeddings.Embedder
	pipeline *ingest.Pipeline
	store    *corpus.Store
	router   *router.Router
}

// setupAssistant builds the assistant from config. Unless --skip-ingest is
// set, the documents folder is ingested first; an unchanged folder is a
// no-op.
func setupAssistant(ctx context.Context, reporter progress.Reporter) (*assistant, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	a := &assistant{
		cfg:      cfg,
		logger:   logger,
		embedder: embedder,
		pipeline: newPipeline(cfg, embedder, logger, reporter),
	}

	if !skipIngest {
		res, err := a.pipeline.Ingest(ctx, cfg.DocumentsDir, cfg.StoreDir)
		if err != nil {
			return nil, fmt.Errorf("ingesting %s: %w", cfg.DocumentsDir, err)
		}
		if res.Rebuilt {
			fmt.Fprintf(os.Stderr, "Ingested %d chunks from %d documents.\n", res.Chunks, res.Documents)
		}
	}

	a.store, err = corpus.Open(cfg.StoreDir, embedder,
		corpus.WithConcurrency(cfg.MaxConcurrency), corpus.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("opening corpus store: %w", err)
	}

	window := conversation.Window{MaxTurns: cfg.History.MaxTurns, MaxChars: cfg.History.MaxChars}
	deps := handlers.Deps{
		Retriever:   retriever.New(a.store),
		Provider:    provider,
		Temperature: cfg.Temperature,
		Window:      window,
	}
	classifier := intent.NewClassifier(provider, intent.WithWindow(window), intent.WithLogger(logger))
	a.router = router.New(classifier, deps, router.Retrieval{
		RagK:       cfg.Retrieval.RagK,
		SummarizeK: cfg.Retrieval.SummarizeK,
		FormatK:    cfg.Retrieval.FormatK,
	}, router.WithLogger(logger))

	return a, nil
}

func (a *assistant) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	_ = a.logger.Sync()
}
