package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/ziadkadry99/doc-assistant/internal/conversation"
	"github.com/ziadkadry99/doc-assistant/internal/corpus"
	"github.com/ziadkadry99/doc-assistant/internal/router"
)

// handleAsk runs one message through the router. Failures inside the
// router come back as an error-typed response, which is reported as a tool
// error so the calling agent can tell them apart from answers.
func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	history, err := parseHistory(request.GetString("history", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp := s.asker.Process(ctx, query, history)
	s.logger.Debug("ask tool", zap.String("type", resp.Type), zap.Int("history", len(history)))

	data, err := json.Marshal(resp)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode response: %v", err)), nil
	}
	if resp.Type == router.TypeError {
		return mcp.NewToolResultError(string(data)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleSearchDocuments returns the raw passages most similar to the query.
func (s *Server) handleSearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	chunks, err := s.search.QuerySimilar(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(chunks) == 0 {
		return mcp.NewToolResultText("No results found. The documents may not be ingested yet. Run `docassist ingest` first."), nil
	}

	return mcp.NewToolResultText(formatChunks(chunks)), nil
}

func parseHistory(raw string) ([]conversation.Turn, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var turns []conversation.Turn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, fmt.Errorf("invalid history: %w", err)
	}
	for i, t := range turns {
		if t.Role != conversation.RoleUser && t.Role != conversation.RoleAssistant {
			return nil, fmt.Errorf("invalid history: turn %d has role %q", i, t.Role)
		}
	}
	return turns, nil
}

func formatChunks(chunks []corpus.Chunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d passages:\n\n", len(chunks))
	for i, c := range chunks {
		fmt.Fprintf(&b, "### %d. %s", i+1, c.SourceID)
		if c.Page > 0 {
			fmt.Fprintf(&b, " (page %d)", c.Page)
		}
		fmt.Fprintf(&b, " [score: %.3f]\n\n%s\n\n", c.Similarity, c.Text)
	}
	return b.String()
}
