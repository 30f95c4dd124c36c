// Package ignore provides gitignore-based file filtering using go-git
package ignore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// StylelintIgnoreFile is read from the project root in addition to .gitignore.
const StylelintIgnoreFile = ".stylelintignore"

// defaultPatterns are always ignored.
var defaultPatterns = []string{".git/**", "node_modules/**"}

// Matcher provides gitignore-based file filtering relative to a project root
type Matcher struct {
	matcher gitignore.Matcher
}

// NewMatcher creates a matcher with layered ignore files:
// 1. built-in patterns (.git, node_modules)
// 2. .gitignore files below the root plus .git/info/exclude
// 3. .stylelintignore at the root, which stylelint itself honours
func NewMatcher(projectRoot string) (*Matcher, error) {
	var all []gitignore.Pattern
	for _, p := range defaultPatterns {
		all = append(all, gitignore.ParsePattern(p, nil))
	}

	gitPatterns, err := gitignore.ReadPatterns(osfs.New(projectRoot), nil)
	if err != nil {
		return nil, err
	}
	all = append(all, gitPatterns...)

	lintPatterns, err := readIgnoreFile(filepath.Join(projectRoot, StylelintIgnoreFile))
	if err != nil {
		return nil, err
	}
	for _, p := range lintPatterns {
		all = append(all, gitignore.ParsePattern(p, nil))
	}

	return &Matcher{matcher: gitignore.NewMatcher(all)}, nil
}

// readIgnoreFile reads patterns from a text file; a missing file has none.
func readIgnoreFile(path string) ([]string, error) {
	content, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- fixed file name under the project root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// IsIgnored reports whether the slash-separated path, relative to the
// project root, is excluded.
func (m *Matcher) IsIgnored(relPath string) bool {
	parts := splitPath(relPath)
	if len(parts) == 0 {
		return false
	}
	// A file is also ignored when any parent directory is.
	for i := 1; i < len(parts); i++ {
		if m.matcher.Match(parts[:i], true) {
			return true
		}
	}
	return m.matcher.Match(parts, false)
}

// splitPath converts a slash-separated path into components for go-git matching
func splitPath(path string) []string {
	path = strings.TrimPrefix(filepath.ToSlash(path), "/")
	if path == "" || path == "." {
		return nil
	}
	parts := strings.Split(path, "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}
