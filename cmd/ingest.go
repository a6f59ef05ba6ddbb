package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/doc-assistant/internal/ingest"
	"github.com/ziadkadry99/doc-assistant/internal/progress"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index the PDF documents into the vector store",
	Long: `Extracts text from every PDF in the documents folder, splits it into
overlapping chunks and embeds them into the vector store. The store is
rebuilt only when the set of documents changed since the last run.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Bool("watch", false, "keep running and re-ingest when documents change")
	ingestCmd.Flags().Int("concurrency", 0, "max parallel embedding calls (overrides config)")
	ingestCmd.Flags().Duration("debounce", ingest.DefaultDebounce, "quiet period before re-ingesting in watch mode")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if concurrency, _ := cmd.Flags().GetInt("concurrency"); concurrency > 0 {
		cfg.MaxConcurrency = concurrency
	}
	watch, _ := cmd.Flags().GetBool("watch")
	debounce, _ := cmd.Flags().GetDuration("debounce")

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	pipeline := newPipeline(cfg, embedder, logger, progress.NewReporter())

	start := time.Now()
	res, err := pipeline.Ingest(ctx, cfg.DocumentsDir, cfg.StoreDir)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", cfg.DocumentsDir, err)
	}
	printIngestResult(res, time.Since(start))

	if !watch {
		return nil
	}

	if err := os.MkdirAll(cfg.DocumentsDir, 0o755); err != nil {
		return fmt.Errorf("creating documents dir: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Watching %s for changes (Ctrl+C to stop)...\n", cfg.DocumentsDir)
	return pipeline.Watch(ctx, cfg.DocumentsDir, cfg.StoreDir, ingest.WatchOptions{
		Debounce: debounce,
		OnResult: func(res *ingest.Result, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "Re-ingestion failed: %v\n", err)
				return
			}
			printIngestResult(res, 0)
		},
	})
}

func printIngestResult(res *ingest.Result, took time.Duration) {
	switch {
	case res.Skipped:
		fmt.Println("Documents unchanged, vector store is up to date.")
	case !res.Rebuilt:
		fmt.Println("No documents found to ingest.")
	default:
		fmt.Printf("Created %d chunks from %d files.\n", res.Chunks, res.Documents)
		if took > 0 {
			fmt.Printf("Done in %s.\n", took.Round(time.Millisecond))
		}
	}
	for _, f := range res.Failed {
		fmt.Fprintf(os.Stderr, "Warning: skipped %s\n", f.Error())
	}
}
