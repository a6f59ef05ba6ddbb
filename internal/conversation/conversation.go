// Package conversation holds caller-owned chat history and the context
// window applied to it before it reaches a prompt.
package conversation

import (
	"strings"
)

// Role is the speaker of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of a conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Window bounds how much history is shown to the model: the most recent
// MaxTurns turns, each cut to MaxChars runes. Zero disables a bound.
type Window struct {
	MaxTurns int
	MaxChars int
}

// DefaultWindow keeps the last 6 turns at 200 characters each.
var DefaultWindow = Window{MaxTurns: 6, MaxChars: 200}

// Apply returns a bounded copy of history. The input is not modified.
func (w Window) Apply(history []Turn) []Turn {
	if w.MaxTurns > 0 && len(history) > w.MaxTurns {
		history = history[len(history)-w.MaxTurns:]
	}
	out := make([]Turn, len(history))
	for i, t := range history {
		out[i] = Turn{Role: t.Role, Content: truncate(t.Content, w.MaxChars)}
	}
	return out
}

// Render formats the bounded history as "role: content" lines.
func (w Window) Render(history []Turn) string {
	var sb strings.Builder
	for i, t := range w.Apply(history) {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(t.Role))
		sb.WriteString(": ")
		sb.WriteString(t.Content)
	}
	return sb.String()
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
