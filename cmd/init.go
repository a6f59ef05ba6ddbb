package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/doc-assistant/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docassist configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the LLM, embeddings and document folders, and writes a .docassist.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("Put your PDFs in %s/ and run `docassist ingest`.\n", cfg.DocumentsDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
