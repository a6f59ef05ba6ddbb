package walker

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude matches PDF documents.
var DefaultInclude = []string{"*.pdf"}

// MatchesInclude returns true if name matches any of the include patterns.
// If patterns is empty, DefaultInclude applies.
func MatchesInclude(name string, patterns []string) bool {
	if len(patterns) == 0 {
		patterns = DefaultInclude
	}
	return matchesAny(name, patterns)
}

// MatchesExclude returns true if name matches any of the exclude patterns.
// If patterns is empty, nothing is excluded.
func MatchesExclude(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(name, patterns)
}

// matchesAny checks name against each pattern. Patterns with a directory
// part are matched against their final element only, since Walk never
// descends.
func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(filepath.Base(pattern), name); err == nil && matched {
			return true
		}
	}
	return false
}
