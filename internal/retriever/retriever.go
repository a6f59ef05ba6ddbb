// Package retriever fetches supporting text for a query from the corpus.
package retriever

import (
	"context"
	"sort"
	"strings"

	"github.com/ziadkadry99/doc-assistant/internal/corpus"
)

// UnknownSource names chunks stored without a source document.
const UnknownSource = "unknown"

// Searcher is the part of the corpus store the retriever needs.
type Searcher interface {
	QuerySimilar(ctx context.Context, text string, k int) ([]corpus.Chunk, error)
}

// Result is the retrieved text and the documents it came from. An empty
// Content means nothing was found.
type Result struct {
	Content string
	Sources []string
	Chunks  int
}

// Empty reports whether nothing was retrieved.
func (r Result) Empty() bool { return r.Content == "" }

// Retriever wraps a Searcher.
type Retriever struct {
	store Searcher
}

// New returns a Retriever over store.
func New(store Searcher) *Retriever {
	return &Retriever{store: store}
}

// Retrieve joins the texts of the k chunks most similar to query with
// spaces, in ranking order, and collects their distinct sources sorted by
// name.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) (Result, error) {
	chunks, err := r.store.QuerySimilar(ctx, query, k)
	if err != nil {
		return Result{}, err
	}

	texts := make([]string, 0, len(chunks))
	seen := make(map[string]bool)
	var sources []string
	for _, c := range chunks {
		texts = append(texts, c.Text)
		source := c.SourceID
		if source == "" {
			source = UnknownSource
		}
		if !seen[source] {
			seen[source] = true
			sources = append(sources, source)
		}
	}
	sort.Strings(sources)

	return Result{
		Content: strings.Join(texts, " "),
		Sources: sources,
		Chunks:  len(chunks),
	}, nil
}
