package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fulmenhq/stylelint-provision/pkg/config"
	"github.com/fulmenhq/stylelint-provision/pkg/exitcode"
	"github.com/fulmenhq/stylelint-provision/pkg/manifest"
	"github.com/fulmenhq/stylelint-provision/pkg/presets"
	"github.com/fulmenhq/stylelint-provision/pkg/prompt"
	"github.com/fulmenhq/stylelint-provision/pkg/provision"
	"github.com/fulmenhq/stylelint-provision/pkg/safeio"
)

func TestExitCodeFor(t *testing.T) {
	_, malformed := manifest.ParseString("nope")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitcode.Success},
		{"config", fmt.Errorf("load: %w", config.ErrInvalidConfig), exitcode.ConfigError},
		{"options", provision.ErrInvalidOptions, exitcode.ValidationError},
		{"unknown preset", fmt.Errorf("x: %w", presets.ErrUnknownPreset), exitcode.ValidationError},
		{"no preset", provision.ErrNoPresetChosen, exitcode.ValidationError},
		{"dirty", fmt.Errorf("web: %w", provision.ErrDirtyWorktree), exitcode.DirtyWorktree},
		{"manifest", manifest.WithFile(malformed, "package.json"), exitcode.ManifestError},
		{"prompt", fmt.Errorf("question: %w", prompt.ErrAnswerRequired), exitcode.PromptError},
		{"cancelled", context.Canceled, exitcode.PromptError},
		{"after", fmt.Errorf("%w: exit 1", provision.ErrAfterFailed), exitcode.HookError},
		{"not a dir", safeio.ErrNotDirectory, exitcode.FileSystemError},
		{"missing", fmt.Errorf("stat: %w", fs.ErrNotExist), exitcode.FileSystemError},
		{"other", errors.New("boom"), exitcode.GeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}
