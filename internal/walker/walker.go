package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileInfo holds metadata about a single document found in the documents directory.
type FileInfo struct {
	Path    string    // Path on disk.
	Name    string    // Base name, used as the document's source id.
	Size    int64     // File size in bytes.
	ModTime time.Time // Last modification time.
}

// WalkerConfig controls the behaviour of the Walk function.
type WalkerConfig struct {
	RootDir string   // Documents directory. Subdirectories are not entered.
	Include []string // Glob patterns matched against the file name.
	Exclude []string // Glob patterns; matching files are skipped.
}

// Walk lists the regular files directly inside config.RootDir that pass the
// include/exclude filters, sorted by name. A missing directory yields no files.
func Walk(config WalkerConfig) ([]FileInfo, error) {
	entries, err := os.ReadDir(config.RootDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("walker: read %s: %w", config.RootDir, err)
	}

	var files []FileInfo
	for _, d := range entries {
		if !d.Type().IsRegular() {
			continue
		}
		name := d.Name()
		if !MatchesInclude(name, config.Include) || MatchesExclude(name, config.Exclude) {
			continue
		}

		info, err := d.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(config.RootDir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
