// Package corpus is the persistent store of embedded document chunks.
//
// The index lives in memory (chromem-go) and is exported to a single
// compressed gob file inside the store directory.
package corpus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"github.com/ziadkadry99/doc-assistant/internal/embeddings"
)

const (
	// IndexFile is the exported index inside a store directory.
	IndexFile = "corpus.gob.gz"

	collectionName = "documents"
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("corpus: store is closed")

// Chunk is a span of document text tagged with its source document.
type Chunk struct {
	ID       string
	Text     string
	SourceID string
	Page     int
	Index    int

	// Similarity is set on query results only.
	Similarity float32
}

// Store holds chunk embeddings and answers similarity queries. It is safe
// for concurrent queries; Upsert and Reset take the write lock.
type Store struct {
	mu     sync.RWMutex
	dir    string
	db     *chromem.DB
	col    *chromem.Collection
	ef     chromem.EmbeddingFunc
	closed bool

	concurrency int
	logger      *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithConcurrency sets how many chunks are embedded in parallel on Upsert.
func WithConcurrency(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// IndexExists reports whether dir contains an exported index.
func IndexExists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, IndexFile))
	return err == nil && !info.IsDir() && info.Size() > 0
}

// Open returns a Store bound to dir. An existing index is loaded; otherwise
// the store starts empty and nothing is written until Persist.
func Open(dir string, embedder embeddings.Embedder, opts ...Option) (*Store, error) {
	s := &Store{
		dir:         dir,
		ef:          embeddings.ToChromemFunc(embedder),
		concurrency: 1,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory index with the one persisted in the store
// directory, or with an empty index if none exists. Queries wait for it.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.load()
}

func (s *Store) load() error {
	if !IndexExists(s.dir) {
		return s.reset()
	}

	path := filepath.Join(s.dir, IndexFile)
	db := chromem.NewDB()
	if err := db.ImportFromFile(path, ""); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	// Imported collections carry no embedding func; attach ours.
	col := db.GetCollection(collectionName, s.ef)
	if col == nil {
		return fmt.Errorf("collection %q not found in %s", collectionName, path)
	}
	s.db, s.col = db, col
	s.logger.Debug("corpus loaded", zap.String("path", path), zap.Int("chunks", col.Count()))
	return nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Upsert embeds and stores chunks. Chunks with an existing ID replace the
// stored entry.
func (s *Store) Upsert(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		if c.Text == "" {
			return fmt.Errorf("chunk %d from %q has no text", i, c.SourceID)
		}
		id := c.ID
		if id == "" {
			id = contentID(c)
		}
		docs[i] = chromem.Document{
			ID:      id,
			Content: c.Text,
			Metadata: map[string]string{
				"source": c.SourceID,
				"page":   strconv.Itoa(c.Page),
				"index":  strconv.Itoa(c.Index),
			},
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.col.AddDocuments(ctx, docs, s.concurrency); err != nil {
		return fmt.Errorf("add %d chunks: %w", len(docs), err)
	}
	return nil
}

// QuerySimilar returns up to k chunks nearest to text, most similar first.
// Fewer than k are returned only when the store holds fewer chunks; an empty
// store, a blank query or k <= 0 yields no results and no error.
func (s *Store) QuerySimilar(ctx context.Context, text string, k int) ([]Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	count := s.col.Count()
	if k <= 0 || count == 0 || strings.TrimSpace(text) == "" {
		return nil, nil
	}
	// chromem-go requires nResults <= collection size.
	n := min(k, count)

	results, err := s.col.Query(ctx, text, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	// Similarity ties are ordered by ID so repeated queries agree.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].ID < results[j].ID
	})

	chunks := make([]Chunk, len(results))
	for i, r := range results {
		page, _ := strconv.Atoi(r.Metadata["page"])
		index, _ := strconv.Atoi(r.Metadata["index"])
		chunks[i] = Chunk{
			ID:         r.ID,
			Text:       r.Content,
			SourceID:   r.Metadata["source"],
			Page:       page,
			Index:      index,
			Similarity: r.Similarity,
		}
	}
	return chunks, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0
	}
	return s.col.Count()
}

// Persist writes the index to the store directory, creating it if needed.
func (s *Store) Persist() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	path := filepath.Join(s.dir, IndexFile)
	if err := s.db.ExportToFile(path, true, ""); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	s.logger.Debug("corpus persisted", zap.String("path", path), zap.Int("chunks", s.col.Count()))
	return nil
}

// Reset drops every chunk from memory. The on-disk index is untouched.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.reset()
}

func (s *Store) reset() error {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, s.ef)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	s.db, s.col = db, col
	return nil
}

// Close releases the in-memory index. Further calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.db, s.col = nil, nil
	return nil
}

func contentID(c Chunk) string {
	sum := sha256.Sum256([]byte(c.SourceID + "\x00" + c.Text))
	return hex.EncodeToString(sum[:16])
}
