package site

import (
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// selected reports whether relPath passes the include and exclude globs.
// An empty include list selects everything.
func selected(relPath string, include, exclude []string) bool {
	if len(include) > 0 && !matchesAny(relPath, include) {
		return false
	}
	return !matchesAny(relPath, exclude)
}

// matchesAny checks relPath, and then its base name, against each glob.
// Patterns use forward slashes and support **.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	base := path.Base(normalized)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.Match(pattern, normalized); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
