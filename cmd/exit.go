package cmd

import (
	"context"
	"errors"
	"io/fs"

	"github.com/fulmenhq/stylelint-provision/pkg/config"
	"github.com/fulmenhq/stylelint-provision/pkg/exitcode"
	"github.com/fulmenhq/stylelint-provision/pkg/manifest"
	"github.com/fulmenhq/stylelint-provision/pkg/presets"
	"github.com/fulmenhq/stylelint-provision/pkg/prompt"
	"github.com/fulmenhq/stylelint-provision/pkg/provision"
	"github.com/fulmenhq/stylelint-provision/pkg/safeio"
)

// exitCodeFor classifies err; the first matching kind wins.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, config.ErrInvalidConfig):
		return exitcode.ConfigError
	case errors.Is(err, provision.ErrInvalidOptions),
		errors.Is(err, provision.ErrNoPresetChosen),
		errors.Is(err, presets.ErrUnknownPreset),
		errors.Is(err, presets.ErrInvalidName),
		errors.Is(err, presets.ErrInvalidSpecifier):
		return exitcode.ValidationError
	case errors.Is(err, provision.ErrDirtyWorktree):
		return exitcode.DirtyWorktree
	case errors.Is(err, manifest.ErrMalformed):
		return exitcode.ManifestError
	case errors.Is(err, prompt.ErrAnswerRequired),
		errors.Is(err, prompt.ErrInvalidAnswer),
		errors.Is(err, context.Canceled):
		return exitcode.PromptError
	case errors.Is(err, provision.ErrAfterFailed):
		return exitcode.HookError
	case errors.Is(err, safeio.ErrNotDirectory),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return exitcode.FileSystemError
	default:
		return exitcode.GeneralError
	}
}
