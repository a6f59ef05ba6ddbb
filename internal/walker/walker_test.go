package walker

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestWalk_ListsPDFsSortedByName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zeta.pdf", "zz")
	writeFile(t, dir, "alpha.pdf", "a")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "nested/inner.pdf", "ignored")

	files, err := Walk(WalkerConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %+v", len(files), files)
	}
	if files[0].Name != "alpha.pdf" || files[1].Name != "zeta.pdf" {
		t.Errorf("unexpected order: %s, %s", files[0].Name, files[1].Name)
	}
	if files[1].Size != 2 {
		t.Errorf("expected size 2, got %d", files[1].Size)
	}
	if files[0].Path != filepath.Join(dir, "alpha.pdf") {
		t.Errorf("unexpected path %s", files[0].Path)
	}
	if files[0].ModTime.IsZero() {
		t.Error("expected modification time to be set")
	}
}

func TestWalk_MissingDirectory(t *testing.T) {
	files, err := Walk(WalkerConfig{RootDir: filepath.Join(t.TempDir(), "nope")})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %d", len(files))
	}
}

func TestWalk_IncludeExclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "report.pdf", "r")
	writeFile(t, dir, "draft-report.pdf", "d")
	writeFile(t, dir, "guide.PDF", "g")

	files, err := Walk(WalkerConfig{
		RootDir: dir,
		Include: []string{"*.pdf", "*.PDF"},
		Exclude: []string{"draft-*"},
	})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %+v", files)
	}
	if files[0].Name != "guide.PDF" || files[1].Name != "report.pdf" {
		t.Errorf("unexpected files %s, %s", files[0].Name, files[1].Name)
	}
}

func TestWalk_ReportsModTime(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf", "a")
	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(filepath.Join(dir, "a.pdf"), stamp, stamp); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	files, err := Walk(WalkerConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if !files[0].ModTime.Equal(stamp) {
		t.Errorf("expected %v, got %v", stamp, files[0].ModTime)
	}
}

func TestMatchesInclude(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		want     bool
	}{
		{"a.pdf", nil, true},
		{"a.txt", nil, false},
		{"a.pdf", []string{"docs/**/*.pdf"}, true},
		{"a.md", []string{"*.md"}, true},
		{"a.md", []string{"*.pdf"}, false},
		{"report-2024.pdf", []string{"report-*.pdf"}, true},
	}
	for _, tt := range tests {
		if got := MatchesInclude(tt.name, tt.patterns); got != tt.want {
			t.Errorf("MatchesInclude(%q, %v) = %v, want %v", tt.name, tt.patterns, got, tt.want)
		}
	}
}

func TestMatchesExclude(t *testing.T) {
	if MatchesExclude("a.pdf", nil) {
		t.Error("empty exclude list must not exclude")
	}
	if !MatchesExclude("draft.pdf", []string{"draft*"}) {
		t.Error("expected draft.pdf to be excluded")
	}
}
