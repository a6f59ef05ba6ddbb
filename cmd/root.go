package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/doc-assistant/internal/config"
)

var (
	cfgFile    string
	verbose    bool
	skipIngest bool
)

var rootCmd = &cobra.Command{
	Use:   "docassist",
	Short: "Conversational assistant over a folder of PDF documents",
	Long: `docassist ingests the PDFs in a documents folder into a local vector
store and answers questions about them. Each message is classified by an
LLM and routed to question answering, summarization, Slack or email
formatting, or plain conversation. It integrates with AI agents via MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Provider API keys usually live in a .env file next to the documents.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&skipIngest, "skip-ingest", false, "do not refresh the document index before answering")
}
