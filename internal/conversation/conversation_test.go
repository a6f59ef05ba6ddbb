package conversation

import (
	"fmt"
	"strings"
	"testing"
)

func turns(n int) []Turn {
	var h []Turn
	for i := 0; i < n; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		h = append(h, Turn{Role: role, Content: fmt.Sprintf("message %d", i)})
	}
	return h
}

func TestApplyKeepsMostRecentTurns(t *testing.T) {
	got := DefaultWindow.Apply(turns(10))
	if len(got) != 6 {
		t.Fatalf("expected 6 turns, got %d", len(got))
	}
	if got[0].Content != "message 4" || got[5].Content != "message 9" {
		t.Errorf("unexpected window %+v", got)
	}
}

func TestApplyShortHistory(t *testing.T) {
	if got := DefaultWindow.Apply(turns(2)); len(got) != 2 {
		t.Errorf("expected 2 turns, got %d", len(got))
	}
	if got := DefaultWindow.Apply(nil); len(got) != 0 {
		t.Errorf("expected empty window, got %d", len(got))
	}
}

func TestApplyTruncatesByRune(t *testing.T) {
	w := Window{MaxTurns: 6, MaxChars: 3}
	got := w.Apply([]Turn{{Role: RoleUser, Content: "héllo"}, {Role: RoleAssistant, Content: "ok"}})
	if got[0].Content != "hél" {
		t.Errorf("expected rune-safe truncation, got %q", got[0].Content)
	}
	if got[1].Content != "ok" {
		t.Errorf("short content changed: %q", got[1].Content)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	h := []Turn{{Role: RoleUser, Content: strings.Repeat("x", 300)}}
	_ = DefaultWindow.Apply(h)
	if len(h[0].Content) != 300 {
		t.Error("input history was modified")
	}
}

func TestZeroWindowIsUnbounded(t *testing.T) {
	h := turns(20)
	h[0].Content = strings.Repeat("y", 1000)
	got := Window{}.Apply(h)
	if len(got) != 20 || len(got[0].Content) != 1000 {
		t.Errorf("zero window must not bound history")
	}
}

func TestRender(t *testing.T) {
	h := []Turn{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello there"},
	}
	want := "user: hi\nassistant: hello there"
	if got := DefaultWindow.Render(h); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := DefaultWindow.Render(nil); got != "" {
		t.Errorf("expected empty render, got %q", got)
	}
}
