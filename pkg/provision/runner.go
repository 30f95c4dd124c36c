package provision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"golang.org/x/sync/errgroup"

	"github.com/fulmenhq/stylelint-provision/internal/discovery"
	"github.com/fulmenhq/stylelint-provision/internal/gitctx"
	"github.com/fulmenhq/stylelint-provision/pkg/logger"
	"github.com/fulmenhq/stylelint-provision/pkg/manifest"
	"github.com/fulmenhq/stylelint-provision/pkg/prompt"
	"github.com/fulmenhq/stylelint-provision/pkg/safeio"
)

var (
	// ErrDirtyWorktree is returned when RequireClean is set and the worktree has changes.
	ErrDirtyWorktree = errors.New("worktree has uncommitted changes")
	// ErrAfterFailed wraps failures of a post-provision command.
	ErrAfterFailed = errors.New("post-provision command failed")
)

// CommandRunner runs a post-provision shell command in dir.
type CommandRunner interface {
	Run(ctx context.Context, dir, command string) error
}

// ShellRunner runs commands through the platform shell.
type ShellRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes command with sh -c (cmd /C on Windows) in dir.
func (s ShellRunner) Run(ctx context.Context, dir, command string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command) // #nosec G204 - command comes from provisioner config
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command) // #nosec G204 - command comes from provisioner config
	}
	cmd.Dir = dir
	cmd.Env = os.Environ()

	var stderr bytes.Buffer
	cmd.Stdout = s.Stdout
	if s.Stderr != nil {
		cmd.Stderr = io.MultiWriter(s.Stderr, &stderr)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// FileResult is the outcome for one provisioned file.
type FileResult struct {
	File    string `json:"file"`
	Created bool   `json:"created"`
	Changed bool   `json:"changed"`
	Content string `json:"-"`
}

// Result is the outcome for one project directory.
type Result struct {
	Dir         string        `json:"dir"`
	Files       []FileResult  `json:"files"`
	After       []string      `json:"after,omitempty"`
	Stylesheets int           `json:"stylesheets"`
	Duration    time.Duration `json:"duration"`
}

// Changed reports whether any file of the directory changed.
func (r Result) Changed() bool {
	for _, f := range r.Files {
		if f.Changed {
			return true
		}
	}
	return false
}

// Runner applies a provisioner Set to project directories.
type Runner struct {
	Prompter prompt.Prompter
	Commands CommandRunner
	// OpenFS returns the filesystem rooted at a project directory.
	OpenFS func(dir string) billy.Filesystem
	// IsClean guards writes when RequireClean is set.
	IsClean func(dir string) (bool, error)
	// CountStylesheets reports how many files the lint script will cover. Nil skips the check.
	CountStylesheets func(dir, src string) (int, error)

	DryRun       bool
	SkipAfter    bool
	RequireClean bool
	MaxWorkers   int
	// Out receives dry-run previews.
	Out io.Writer

	outMu sync.Mutex
}

// NewRunner returns a Runner wired to the local disk, git and the shell.
func NewRunner(p prompt.Prompter, out io.Writer) *Runner {
	return &Runner{
		Prompter:         p,
		Commands:         ShellRunner{Stdout: os.Stderr, Stderr: os.Stderr},
		OpenFS:           func(dir string) billy.Filesystem { return osfs.New(dir) },
		IsClean:          gitctx.IsClean,
		CountStylesheets: discovery.CountStylesheets,
		Out:              out,
	}
}

// Run asks the set's questions once, then provisions every directory.
// Directories are processed concurrently up to MaxWorkers; results keep the
// order of dirs.
func (r *Runner) Run(ctx context.Context, dirs []string, set Set, answers prompt.Answers) ([]Result, error) {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	p := r.Prompter
	if p == nil {
		p = prompt.NonInteractive{}
	}
	resolved, err := prompt.Resolve(ctx, p, set.Questions(), answers)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	if r.MaxWorkers > 0 {
		g.SetLimit(r.MaxWorkers)
	}
	for i, dir := range dirs {
		g.Go(func() error {
			res, err := r.provisionDir(gctx, dir, set, resolved)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) provisionDir(ctx context.Context, dir string, set Set, answers prompt.Answers) (Result, error) {
	start := time.Now()
	res := Result{Dir: dir}

	if r.RequireClean && !r.DryRun && r.IsClean != nil {
		clean, err := r.IsClean(dir)
		switch {
		case errors.Is(err, gitctx.ErrNotRepository):
			logger.Debug("Skipping worktree guard outside git", logger.String("dir", dir))
		case err != nil:
			return res, fmt.Errorf("%s: %w", dir, err)
		case !clean:
			return res, fmt.Errorf("%s: %w", dir, ErrDirtyWorktree)
		}
	}

	fs := r.OpenFS(dir)
	var after []string
	seen := make(map[string]bool)

	for _, file := range set.Files() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		fr, err := r.provisionFile(fs, dir, file, set[file], answers)
		if err != nil {
			return res, err
		}
		res.Files = append(res.Files, fr)

		if cmd := set[file].After; fr.Changed && cmd != "" && !seen[cmd] {
			seen[cmd] = true
			after = append(after, cmd)
		}
	}

	if r.CountStylesheets != nil {
		res.Stylesheets = r.countStylesheets(dir, res.Files)
	}

	if !r.DryRun && !r.SkipAfter && r.Commands != nil {
		for _, cmd := range after {
			logger.Info("Running post-provision command", logger.String("dir", dir), logger.String("command", cmd))
			if err := r.Commands.Run(ctx, dir, cmd); err != nil {
				return res, fmt.Errorf("%s: %q: %w: %w", dir, cmd, ErrAfterFailed, err)
			}
			res.After = append(res.After, cmd)
		}
	}

	res.Duration = time.Since(start)
	return res, nil
}

func (r *Runner) provisionFile(fs billy.Filesystem, dir, file string, p Provisioner, answers prompt.Answers) (FileResult, error) {
	fr := FileResult{File: file}

	data, exists, err := safeio.ReadFileIfExists(fs, file)
	if err != nil {
		return fr, fmt.Errorf("%s in %s: read: %w", file, dir, err)
	}
	existing := string(data)
	if !exists {
		existing = "{}"
		fr.Created = true
	}

	if p.Contents == nil {
		return fr, fmt.Errorf("%s in %s: provisioner has no contents function", file, dir)
	}
	out, err := p.Contents(existing, answers)
	if err != nil {
		return fr, fmt.Errorf("%s in %s: %w", file, dir, manifest.WithFile(err, file))
	}
	fr.Content = out
	fr.Changed = !exists || out != string(data)

	switch {
	case r.DryRun:
		r.preview(dir, file, out)
	case fr.Changed:
		if err := safeio.WriteFileAtomic(fs, file, []byte(out)); err != nil {
			return fr, fmt.Errorf("%s in %s: write: %w", file, dir, err)
		}
		logger.Info("Provisioned file", logger.String("dir", dir), logger.String("file", file), logger.Bool("created", fr.Created))
	default:
		logger.Debug("File already up to date", logger.String("dir", dir), logger.String("file", file))
	}
	return fr, nil
}

func (r *Runner) preview(dir, file, content string) {
	if r.Out == nil {
		return
	}
	r.outMu.Lock()
	defer r.outMu.Unlock()
	_, _ = fmt.Fprintf(r.Out, "# %s/%s\n%s", dir, file, content)
}

func (r *Runner) countStylesheets(dir string, files []FileResult) int {
	src := DefaultSourceDir
	for _, f := range files {
		if f.File != manifest.FileName {
			continue
		}
		if doc, err := manifest.ParseString(f.Content); err == nil {
			if s, ok := manifest.StringAt(doc, "directories", "src"); ok && s != "" {
				src = s
			}
		}
	}

	n, err := r.CountStylesheets(dir, src)
	if err != nil {
		logger.Warn("Could not scan for stylesheets", logger.String("dir", dir), logger.Err(err))
		return 0
	}
	if n == 0 {
		logger.Warn("No stylesheets found under the source directory; the lint script will have nothing to check",
			logger.String("dir", dir), logger.String("src", src))
	}
	return n
}
