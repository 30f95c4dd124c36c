package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNewMatcher(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".gitignore", "# generated\n*.min.css\ncoverage/\n")
	write(t, root, StylelintIgnoreFile, "src/vendor/**\n\n# third party\n")

	m, err := NewMatcher(root)
	require.NoError(t, err)

	tests := []struct {
		path    string
		ignored bool
	}{
		{"src/main.css", false},
		{"src/main.min.css", true},
		{"coverage/report.css", true},
		{"src/vendor/reset.css", true},
		{"node_modules/pkg/a.css", true},
		{"src/node_modules/pkg/a.css", false},
		{".git/info/x.css", true},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.ignored, m.IsIgnored(tt.path))
		})
	}
}

func TestNewMatcherWithoutIgnoreFiles(t *testing.T) {
	m, err := NewMatcher(t.TempDir())
	require.NoError(t, err)
	assert.False(t, m.IsIgnored("src/a.css"))
	assert.True(t, m.IsIgnored("node_modules/a.css"))
}

func TestNestedGitignore(t *testing.T) {
	root := t.TempDir()
	write(t, root, "src/.gitignore", "generated.css\n")

	m, err := NewMatcher(root)
	require.NoError(t, err)
	assert.True(t, m.IsIgnored("src/generated.css"))
	assert.False(t, m.IsIgnored("generated.css"))
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitPath("/a//b/"))
	assert.Nil(t, splitPath("."))
}
