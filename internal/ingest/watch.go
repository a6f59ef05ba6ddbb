package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ziadkadry99/doc-assistant/internal/walker"
)

// DefaultDebounce is how long Watch waits after the last change before
// re-ingesting.
const DefaultDebounce = 2 * time.Second

// WatchOptions configures Watch.
type WatchOptions struct {
	Debounce time.Duration
	// OnResult is called after every re-ingestion attempt.
	OnResult func(*Result, error)
}

// Watch re-runs Ingest whenever a matching document in documentsDir is
// created, written, removed or renamed. Bursts of events are coalesced.
// It blocks until ctx is done.
func (p *Pipeline) Watch(ctx context.Context, documentsDir, storeDir string, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(documentsDir); err != nil {
		return fmt.Errorf("watch %s: %w", documentsDir, err)
	}
	p.logger.Info("watching documents", zap.String("dir", documentsDir))

	timer := time.NewTimer(opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !p.relevant(event) {
				continue
			}
			p.logger.Debug("document changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(opts.Debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			res, err := p.Ingest(ctx, documentsDir, storeDir)
			if err != nil {
				p.logger.Error("re-ingestion failed", zap.Error(err))
			}
			if opts.OnResult != nil {
				opts.OnResult(res, err)
			}
		}
	}
}

func (p *Pipeline) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	return walker.MatchesInclude(filepath.Base(event.Name), p.include)
}
