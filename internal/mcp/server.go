// Package mcp exposes the assistant to agents over the Model Context Protocol.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ziadkadry99/doc-assistant/internal/conversation"
	"github.com/ziadkadry99/doc-assistant/internal/logging"
	"github.com/ziadkadry99/doc-assistant/internal/retriever"
	"github.com/ziadkadry99/doc-assistant/internal/router"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Asker answers a message given the prior conversation.
type Asker interface {
	Process(ctx context.Context, query string, history []conversation.Turn) router.Response
}

// Server wraps an MCP server that exposes the assistant tools.
type Server struct {
	asker  Asker
	search retriever.Searcher
	logger *zap.Logger
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server. search may be nil, in which case the
// search_documents tool is not registered.
func NewServer(asker Asker, search retriever.Searcher, logger *zap.Logger) *Server {
	s := &Server{
		asker:  asker,
		search: search,
		logger: logging.OrNop(logger),
	}

	s.mcp = server.NewMCPServer(
		"docassist",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(askTool, s.handleAsk)
	if s.search != nil {
		s.mcp.AddTool(searchDocumentsTool, s.handleSearchDocuments)
	}
}

// Serve starts the MCP server on stdio. Stdout carries protocol messages,
// so all logging must go to stderr.
func (s *Server) Serve() error {
	s.logger.Info("serving MCP on stdio")
	return server.ServeStdio(s.mcp)
}
