// Package discovery finds the files a provisioned lint script will cover.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fulmenhq/stylelint-provision/pkg/ignore"
	"github.com/fulmenhq/stylelint-provision/pkg/safeio"
)

// ErrSourceOutsideRoot is returned when the source directory escapes the project root.
var ErrSourceOutsideRoot = errors.New("source directory is outside the project root")

// StylesheetPattern matches every stylesheet syntax stylelint understands.
const StylesheetPattern = "**/*.{css,scss,sass,less,sss}"

// excluded paths are dependency and build output trees.
var excluded = []string{"**/node_modules/**", "**/.git/**", "**/dist/**", "**/build/**"}

// Stylesheets lists stylesheets below root/src as slash-separated paths
// relative to the source directory. Files excluded by .gitignore or
// .stylelintignore are skipped. A missing source directory yields none.
func Stylesheets(root, src string) ([]string, error) {
	clean, err := safeio.CleanUserPath(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrSourceOutsideRoot, src)
	}
	src = strings.TrimPrefix(clean, "/")
	base := filepath.Join(root, filepath.FromSlash(src))
	st, err := os.Stat(base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("source path %s is not a directory", base)
	}

	matches, err := doublestar.Glob(os.DirFS(base), StylesheetPattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", base, err)
	}

	matcher, err := ignore.NewMatcher(root)
	if err != nil {
		return nil, fmt.Errorf("read ignore files in %s: %w", root, err)
	}

	out := matches[:0]
	for _, m := range matches {
		if isExcluded(m) || matcher.IsIgnored(path.Join(filepath.ToSlash(src), m)) {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

// CountStylesheets is len(Stylesheets(root, src)).
func CountStylesheets(root, src string) (int, error) {
	files, err := Stylesheets(root, src)
	return len(files), err
}

func isExcluded(path string) bool {
	for _, pattern := range excluded {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
