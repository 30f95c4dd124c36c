// Package gitctx inspects the git worktree a provisioned directory lives in.
package gitctx

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	git "github.com/go-git/go-git/v5"
)

// ErrNotRepository is returned when target is not inside a git worktree.
var ErrNotRepository = errors.New("not a git repository")

// WorktreeState is a minimal view of the worktree containing a directory.
type WorktreeState struct {
	Branch   string   `json:"branch,omitempty"`
	GitSHA   string   `json:"git_sha,omitempty"`
	Modified []string `json:"modified_files"`
}

// Clean reports whether the worktree has no staged or unstaged changes.
func (s *WorktreeState) Clean() bool {
	return len(s.Modified) == 0
}

// Inspect opens the repository containing target and reports its state.
func Inspect(target string) (*WorktreeState, error) {
	repo, err := git.PlainOpenWithOptions(target, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", target, ErrNotRepository)
		}
		return nil, fmt.Errorf("open repository at %s: %w", target, err)
	}

	state := &WorktreeState{}
	// A fresh repository has no HEAD yet; that is not an error here.
	if head, err := repo.Head(); err == nil {
		state.Branch = head.Name().Short()
		state.GitSHA = head.Hash().String()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	st, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("worktree status: %w", err)
	}

	for path, s := range st {
		if s.Staging != git.Unmodified || s.Worktree != git.Unmodified {
			state.Modified = append(state.Modified, filepath.ToSlash(path))
		}
	}
	sort.Strings(state.Modified)
	return state, nil
}

// IsClean reports whether the worktree containing target is clean.
func IsClean(target string) (bool, error) {
	state, err := Inspect(target)
	if err != nil {
		return false, err
	}
	return state.Clean(), nil
}
