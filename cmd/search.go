package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/doc-assistant/internal/corpus"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Semantically search the ingested document chunks",
	Long:  `Searches the vector store using a natural language query and prints the most similar passages without calling the LLM.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 5, "maximum number of results")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	queryText := args[0]

	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	if !corpus.IndexExists(cfg.StoreDir) {
		fmt.Println("Vector store is empty. Run `docassist ingest` first.")
		return nil
	}
	store, err := corpus.Open(cfg.StoreDir, embedder, corpus.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("loading vector store from %s: %w", cfg.StoreDir, err)
	}
	defer store.Close()

	results, err := store.QuerySimilar(ctx, queryText, limit)
	if err != nil {
		return fmt.Errorf("searching %s: %w", store.Dir(), err)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if jsonOutput {
		return printSearchResultsJSON(results)
	}

	printSearchResultsTable(results)
	return nil
}

type searchResultJSON struct {
	Rank       int     `json:"rank"`
	Similarity float64 `json:"similarity"`
	Source     string  `json:"source"`
	Page       int     `json:"page,omitempty"`
	Text       string  `json:"text"`
}

func printSearchResultsJSON(results []corpus.Chunk) error {
	out := make([]searchResultJSON, 0, len(results))
	for i, r := range results {
		out = append(out, searchResultJSON{
			Rank:       i + 1,
			Similarity: float64(r.Similarity),
			Source:     r.SourceID,
			Page:       r.Page,
			Text:       r.Text,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printSearchResultsTable(results []corpus.Chunk) {
	fmt.Printf("Found %d results:\n\n", len(results))
	for i, r := range results {
		location := r.SourceID
		if r.Page > 0 {
			location = fmt.Sprintf("%s p.%d", location, r.Page)
		}
		fmt.Printf("  %d. [%.1f%%] %s\n", i+1, r.Similarity*100, location)
		fmt.Printf("     %s\n\n", truncate(r.Text, 160))
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
