package gitctx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return dir, repo
}

func commitAll(t *testing.T, repo *git.Repository, msg string) {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddGlob("."))
	_, err = wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestInspectNotRepository(t *testing.T) {
	_, err := Inspect(t.TempDir())
	assert.ErrorIs(t, err, ErrNotRepository)

	_, err = IsClean(t.TempDir())
	assert.ErrorIs(t, err, ErrNotRepository)
}

func TestInspectEmptyRepository(t *testing.T) {
	dir, _ := initRepo(t)

	state, err := Inspect(dir)
	require.NoError(t, err)
	assert.True(t, state.Clean())
	assert.Empty(t, state.GitSHA)
}

func TestInspectDirtyThenClean(t *testing.T) {
	dir, repo := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}\n"), 0o600))

	clean, err := IsClean(dir)
	require.NoError(t, err)
	assert.False(t, clean)

	state, err := Inspect(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"package.json"}, state.Modified)

	commitAll(t, repo, "init")

	state, err = Inspect(dir)
	require.NoError(t, err)
	assert.True(t, state.Clean())
	assert.NotEmpty(t, state.GitSHA)
	assert.NotEmpty(t, state.Branch)
}

func TestInspectFromSubdirectory(t *testing.T) {
	dir, repo := initRepo(t)
	sub := filepath.Join(dir, "packages", "web")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "package.json"), []byte("{}\n"), 0o600))
	commitAll(t, repo, "init")

	clean, err := IsClean(sub)
	require.NoError(t, err)
	assert.True(t, clean)
}
