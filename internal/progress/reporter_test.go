package progress

import (
	"bytes"
	"testing"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}
	r.Start(2, "Loading documents")
	r.Update(1, "policy.pdf")
	r.Update(2, "handbook.pdf")
	r.Finish()

	want := "Loading documents (2)\n[1/2] policy.pdf\n[2/2] handbook.pdf\ndone\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestNewReporterUnderCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}

func TestNewReporterInTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	if _, ok := NewReporter().(*TerminalReporter); !ok {
		t.Error("expected TerminalReporter outside CI")
	}
}

func TestTerminalReporterBeforeStart(t *testing.T) {
	r := &TerminalReporter{}
	r.Update(1, "x")
	r.Finish()
}
