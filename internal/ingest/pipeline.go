// Package ingest turns a directory of documents into a persisted corpus.
//
// A run is skipped when the store already holds an index and the persisted
// fingerprint of the documents directory still matches. Any other state
// leads to a full rebuild: the store directory is removed, every document is
// loaded, split and embedded, then the index and fingerprint are written.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/ziadkadry99/doc-assistant/internal/corpus"
	"github.com/ziadkadry99/doc-assistant/internal/embeddings"
	"github.com/ziadkadry99/doc-assistant/internal/progress"
	"github.com/ziadkadry99/doc-assistant/internal/walker"
)

// ErrStoreWrite marks failures to write the store directory. A run that
// fails this way leaves no fingerprint behind, so the next run rebuilds.
var ErrStoreWrite = errors.New("store write failed")

// upsertBatch is the number of chunks embedded per progress step.
const upsertBatch = 32

// DocumentError records a document that could not be loaded.
type DocumentError struct {
	Source string
	Err    error
}

func (e DocumentError) Error() string { return fmt.Sprintf("%s: %v", e.Source, e.Err) }
func (e DocumentError) Unwrap() error { return e.Err }

// Result summarises one ingestion run.
type Result struct {
	Skipped     bool // Fingerprint matched; nothing was done.
	Rebuilt     bool // A new index and fingerprint were written.
	Documents   int  // Documents that contributed at least one chunk.
	Chunks      int
	Failed      []DocumentError
	Fingerprint string
}

// Pipeline ingests documents into a corpus store. Runs are serialised.
type Pipeline struct {
	embedder embeddings.Embedder
	loader   Loader
	splitter Splitter
	include  []string

	concurrency int
	logger      *zap.Logger
	reporter    progress.Reporter

	mu sync.Mutex
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLoader replaces the PDF loader.
func WithLoader(l Loader) Option { return func(p *Pipeline) { p.loader = l } }

// WithSplitter replaces the default 800/150 splitter.
func WithSplitter(s Splitter) Option { return func(p *Pipeline) { p.splitter = s } }

// WithInclude sets the document file patterns.
func WithInclude(patterns []string) Option { return func(p *Pipeline) { p.include = patterns } }

// WithConcurrency sets the number of parallel embedding calls.
func WithConcurrency(n int) Option { return func(p *Pipeline) { p.concurrency = n } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithReporter sets the progress reporter.
func WithReporter(r progress.Reporter) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.reporter = r
		}
	}
}

// New returns a Pipeline embedding chunks with embedder. A query cache
// around embedder is bypassed.
func New(embedder embeddings.Embedder, opts ...Option) *Pipeline {
	p := &Pipeline{
		embedder: embeddings.Uncached(embedder),
		loader:   PDFLoader{},
		splitter: Splitter{
			ChunkSize:  800,
			Overlap:    150,
			Separators: []string{"\n\n", "\n", ". ", " ", ""},
		},
		include:     walker.DefaultInclude,
		concurrency: 1,
		logger:      zap.NewNop(),
		reporter:    progress.Nop{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest brings storeDir up to date with the documents in documentsDir.
func (p *Pipeline) Ingest(ctx context.Context, documentsDir, storeDir string) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sameDir(documentsDir, storeDir) {
		return nil, fmt.Errorf("store dir %q must differ from documents dir", storeDir)
	}

	files, err := walker.Walk(walker.WalkerConfig{RootDir: documentsDir, Include: p.include})
	if err != nil {
		return nil, err
	}
	fp := Fingerprint(files)
	log := p.logger.With(zap.String("documents_dir", documentsDir), zap.String("store_dir", storeDir))

	stale, reason, err := p.needsRebuild(storeDir, fp)
	if err != nil {
		return nil, err
	}
	if !stale {
		log.Info("corpus is up to date, skipping ingestion", zap.String("fingerprint", fp))
		return &Result{Skipped: true, Fingerprint: fp}, nil
	}
	log.Info("rebuilding corpus", zap.String("reason", reason), zap.Int("files", len(files)))

	res := &Result{Fingerprint: fp}
	chunks := p.load(ctx, files, res, log)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		log.Warn("no documents found to ingest", zap.Int("failed", len(res.Failed)))
		return res, nil
	}

	if err := os.RemoveAll(storeDir); err != nil {
		return nil, fmt.Errorf("%w: remove %s: %v", ErrStoreWrite, storeDir, err)
	}
	if err := os.MkdirAll(storeDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrStoreWrite, storeDir, err)
	}

	store, err := corpus.Open(storeDir, p.embedder,
		corpus.WithConcurrency(p.concurrency), corpus.WithLogger(p.logger))
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if err := p.upsert(ctx, store, chunks); err != nil {
		return nil, err
	}
	if err := store.Persist(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	if err := WriteFingerprint(storeDir, fp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	res.Rebuilt = true
	res.Chunks = len(chunks)
	log.Info("documents ingested",
		zap.Int("chunks", res.Chunks),
		zap.Int("documents", res.Documents),
		zap.Int("failed", len(res.Failed)))
	return res, nil
}

// needsRebuild reports whether storeDir must be rebuilt for fingerprint fp.
func (p *Pipeline) needsRebuild(storeDir, fp string) (bool, string, error) {
	if !corpus.IndexExists(storeDir) {
		return true, "no index", nil
	}
	saved, ok, err := ReadFingerprint(storeDir)
	if err != nil {
		return false, "", err
	}
	switch {
	case !ok:
		return true, "no fingerprint", nil
	case saved != fp:
		return true, "documents changed", nil
	default:
		return false, "", nil
	}
}

// load extracts and splits every file. Unreadable documents are recorded
// in res.Failed and skipped.
func (p *Pipeline) load(ctx context.Context, files []walker.FileInfo, res *Result, log *zap.Logger) []corpus.Chunk {
	var chunks []corpus.Chunk

	p.reporter.Start(len(files), "Loading documents")
	defer p.reporter.Finish()

	for i, f := range files {
		if ctx.Err() != nil {
			return nil
		}
		p.reporter.Update(i+1, f.Name)

		pages, err := p.loader.Load(ctx, f.Path)
		if err != nil {
			log.Warn("skipping unreadable document", zap.String("source", f.Name), zap.Error(err))
			res.Failed = append(res.Failed, DocumentError{Source: f.Name, Err: err})
			continue
		}

		before := len(chunks)
		for _, page := range pages {
			for idx, text := range p.splitter.Split(page.Text) {
				chunks = append(chunks, corpus.Chunk{
					ID:       fmt.Sprintf("%s#p%d#%d", f.Name, page.Number, idx),
					Text:     text,
					SourceID: f.Name,
					Page:     page.Number,
					Index:    idx,
				})
			}
		}
		if n := len(chunks) - before; n > 0 {
			res.Documents++
			log.Debug("processed document", zap.String("source", f.Name), zap.Int("pages", len(pages)), zap.Int("chunks", n))
		} else {
			log.Warn("document has no extractable text", zap.String("source", f.Name))
		}
	}
	return chunks
}

func (p *Pipeline) upsert(ctx context.Context, store *corpus.Store, chunks []corpus.Chunk) error {
	p.reporter.Start(len(chunks), "Embedding chunks")
	defer p.reporter.Finish()

	for start := 0; start < len(chunks); start += upsertBatch {
		end := min(start+upsertBatch, len(chunks))
		if err := store.Upsert(ctx, chunks[start:end]); err != nil {
			return fmt.Errorf("embed chunks: %w", err)
		}
		p.reporter.Update(end, fmt.Sprintf("%d/%d chunks", end, len(chunks)))
	}
	return nil
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
