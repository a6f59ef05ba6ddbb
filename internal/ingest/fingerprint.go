package ingest

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ziadkadry99/doc-assistant/internal/walker"
)

const (
	// FingerprintFile is the sidecar written next to the index after a rebuild.
	FingerprintFile = ".docs_fingerprint"

	// EmptyFingerprint identifies a documents directory with no documents.
	EmptyFingerprint = "empty"
)

// Fingerprint digests the name, modification time and size of every file.
// Files are sorted by name first so the result does not depend on
// directory listing order.
func Fingerprint(files []walker.FileInfo) string {
	if len(files) == 0 {
		return EmptyFingerprint
	}

	sorted := make([]walker.FileInfo, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	entries := make([]string, len(sorted))
	for i, f := range sorted {
		entries[i] = fmt.Sprintf("%s:%s:%d", f.Name, formatMtime(f), f.Size)
	}
	sum := md5.Sum([]byte(strings.Join(entries, "|")))
	return hex.EncodeToString(sum[:])
}

// formatMtime renders the modification time as fractional Unix seconds.
func formatMtime(f walker.FileInfo) string {
	secs := float64(f.ModTime.UnixNano()) / 1e9
	s := strconv.FormatFloat(secs, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ReadFingerprint returns the fingerprint persisted in storeDir. The bool is
// false when no sidecar exists.
func ReadFingerprint(storeDir string) (string, bool, error) {
	data, err := os.ReadFile(filepath.Join(storeDir, FingerprintFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read fingerprint: %w", err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

// WriteFingerprint persists fp into storeDir.
func WriteFingerprint(storeDir, fp string) error {
	if err := os.WriteFile(filepath.Join(storeDir, FingerprintFile), []byte(fp), 0o644); err != nil {
		return fmt.Errorf("write fingerprint: %w", err)
	}
	return nil
}
