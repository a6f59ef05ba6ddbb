package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/doc-assistant/internal/conversation"
	"github.com/ziadkadry99/doc-assistant/internal/corpus"
	"github.com/ziadkadry99/doc-assistant/internal/embeddings/embedtest"
	"github.com/ziadkadry99/doc-assistant/internal/router"
)

type mockAsker struct {
	resp    router.Response
	query   string
	history []conversation.Turn
}

func (m *mockAsker) Process(_ context.Context, query string, history []conversation.Turn) router.Response {
	m.query = query
	m.history = history
	return m.resp
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Content[0])
	}
	return tc.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"ask", askTool, "ask"},
		{"search_documents", searchDocumentsTool, "search_documents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	asker := &mockAsker{}
	srv := NewServer(asker, nil, nil)

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.logger == nil {
		t.Error("logger should default to a no-op logger")
	}
}

func TestHandleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("passes query and history", func(t *testing.T) {
		asker := &mockAsker{resp: router.Response{Output: "Hello!", Type: "conversational"}}
		srv := NewServer(asker, nil, nil)

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"query":   "thanks",
			"history": `[{"role":"user","content":"hi"},{"role":"assistant","content":"Hello"}]`,
		}

		result, err := srv.handleAsk(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if asker.query != "thanks" {
			t.Errorf("query = %q, want %q", asker.query, "thanks")
		}
		if len(asker.history) != 2 || asker.history[1].Role != conversation.RoleAssistant {
			t.Errorf("history = %+v", asker.history)
		}

		var got router.Response
		if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if got != asker.resp {
			t.Errorf("response = %+v, want %+v", got, asker.resp)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		srv := NewServer(&mockAsker{}, nil, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleAsk(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})

	t.Run("malformed history", func(t *testing.T) {
		asker := &mockAsker{}
		srv := NewServer(asker, nil, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "q", "history": "[{"}

		result, err := srv.handleAsk(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for malformed history")
		}
		if asker.query != "" {
			t.Error("router should not be called with malformed history")
		}
	})

	t.Run("error response is a tool error", func(t *testing.T) {
		asker := &mockAsker{resp: router.Response{Output: "An error occurred: boom", Type: router.TypeError}}
		srv := NewServer(asker, nil, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "q"}

		result, err := srv.handleAsk(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error")
		}
		if !strings.Contains(resultText(t, result), "An error occurred: boom") {
			t.Errorf("text = %q", resultText(t, result))
		}
	})
}

func TestParseHistory(t *testing.T) {
	turns, err := parseHistory("  ")
	if err != nil || turns != nil {
		t.Errorf("blank history = %v, %v; want nil, nil", turns, err)
	}

	if _, err := parseHistory(`[{"role":"system","content":"x"}]`); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestHandleSearchDocuments(t *testing.T) {
	ctx := context.Background()
	store, err := corpus.Open(t.TempDir(), embedtest.New(64))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	srv := NewServer(&mockAsker{}, store, nil)

	t.Run("empty store", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "anything"}

		result, err := srv.handleSearchDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if !strings.Contains(resultText(t, result), "No results found") {
			t.Errorf("text = %q", resultText(t, result))
		}
	})

	err = store.Upsert(ctx, []corpus.Chunk{
		{Text: "Vacation days accrue monthly.", SourceID: "policy.pdf", Page: 2},
		{Text: "Expenses need a receipt.", SourceID: "expenses.pdf", Page: 1},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	t.Run("basic search", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "vacation days", "limit": 1}

		result, err := srv.handleSearchDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "Found 1 passages") {
			t.Errorf("text = %q", text)
		}
		if !strings.Contains(text, "policy.pdf (page 2)") {
			t.Errorf("expected policy.pdf page 2 in %q", text)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})
}
