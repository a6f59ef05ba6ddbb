// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"github.com/ziadkadry99/doc-assistant/internal/llm"
)

// Provider replays canned replies. Replies are consumed in order; once
// exhausted, Default is returned. Err, when set, fails every call.
type Provider struct {
	mu      sync.Mutex
	Replies []string
	Default string
	Err     error
	Calls   []llm.CompletionRequest
}

// New returns a Provider that answers with replies in order.
func New(replies ...string) *Provider {
	return &Provider{Replies: replies, Default: "ok"}
}

func (p *Provider) Name() string { return "scripted" }

func (p *Provider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, req)
	if p.Err != nil {
		return nil, p.Err
	}
	content := p.Default
	if len(p.Replies) > 0 {
		content, p.Replies = p.Replies[0], p.Replies[1:]
	}
	return &llm.CompletionResponse{Content: content, Model: "scripted", FinishReason: "stop"}, nil
}

// CallCount returns the number of Complete calls made so far.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Calls)
}

// Prompt returns the concatenated message contents of call i.
func (p *Provider) Prompt(i int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.Calls) {
		return ""
	}
	var parts []string
	for _, m := range p.Calls[i].Messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n")
}
