package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/doc-assistant/internal/ingest"
	mcpserver "github.com/ziadkadry99/doc-assistant/internal/mcp"
	"github.com/ziadkadry99/doc-assistant/internal/progress"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio exposing the ask and search_documents tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		watch, _ := cmd.Flags().GetBool("watch")

		// Stdout carries MCP messages, so progress stays silent.
		a, err := setupAssistant(ctx, progress.Nop{})
		if err != nil {
			return err
		}
		defer a.Close()

		if watch {
			if err := os.MkdirAll(a.cfg.DocumentsDir, 0o755); err != nil {
				return fmt.Errorf("creating documents dir: %w", err)
			}
			go func() {
				err := a.pipeline.Watch(ctx, a.cfg.DocumentsDir, a.cfg.StoreDir, ingest.WatchOptions{
					OnResult: func(res *ingest.Result, err error) {
						if err != nil || !res.Rebuilt {
							return
						}
						if err := a.store.Reload(); err != nil {
							a.logger.Error("reloading corpus", zap.Error(err))
							return
						}
						a.logger.Info("corpus reloaded", zap.Int("chunks", a.store.Count()))
					},
				})
				if err != nil {
					a.logger.Error("watch stopped", zap.Error(err))
				}
			}()
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "docassist MCP server started on stdio (store=%s, chunks=%d)\n", a.store.Dir(), a.store.Count())

		srv := mcpserver.NewServer(a.router, a.store, a.logger)
		return srv.Serve()
	},
}

func init() {
	serveCmd.Flags().Bool("watch", false, "re-ingest and reload the store when documents change")
	rootCmd.AddCommand(serveCmd)
}
