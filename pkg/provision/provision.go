// Package provision computes the stylelint section of a package.json and
// applies it to projects on disk.
//
// The transform itself (Options.Transform) is pure: it maps existing manifest
// text and question answers to new manifest text. Asking questions, reading
// and writing files and running the post-provision command belong to Runner.
package provision

import (
	"sort"

	"github.com/fulmenhq/stylelint-provision/pkg/manifest"
	"github.com/fulmenhq/stylelint-provision/pkg/prompt"
)

// ContentsFunc maps the current file text and answers to the new file text.
type ContentsFunc func(existing string, answers prompt.Answers) (string, error)

// Provisioner describes how one file is provisioned.
type Provisioner struct {
	// After is run in the project directory once the file changed.
	After     string
	Questions []prompt.Question
	Contents  ContentsFunc
}

// Set maps file names, relative to the project directory, to provisioners.
type Set map[string]Provisioner

// Files returns the file names in processing order.
func (s Set) Files() []string {
	files := make([]string, 0, len(s))
	for f := range s {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Questions returns every question of the set, in file order.
func (s Set) Questions() []prompt.Question {
	var qs []prompt.Question
	for _, f := range s.Files() {
		qs = append(qs, s[f].Questions...)
	}
	return qs
}

// Stylelint returns the provisioner set adding stylelint to package.json.
func Stylelint(opts Options) Set {
	return Set{
		manifest.FileName: {
			After:     opts.After,
			Questions: Questions(opts),
			Contents:  opts.Transform,
		},
	}
}

// Baseline is the lowest-priority layer of every merge.
func Baseline() manifest.Document {
	return manifest.Document{
		"directories": map[string]any{"src": DefaultSourceDir},
	}
}

// Fragment builds the manifest keys the provisioner owns.
func (o Options) Fragment(answers prompt.Answers) (manifest.Document, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	deps, err := ResolvePresets(o.Presets, answers)
	if err != nil {
		return nil, err
	}

	var lintConfig any
	if o.LintConfig != nil {
		lintConfig = manifest.Clone(o.LintConfig)
	} else {
		extends := make([]any, len(deps))
		for i, d := range deps {
			extends[i] = d.Name
		}
		lintConfig = map[string]any{"extends": extends}
	}

	devDeps := make(map[string]any, len(deps)+1)
	for _, d := range deps {
		devDeps[d.Name] = d.Version
	}
	devDeps[LinterPackage] = o.LinterVersion

	scripts, err := Scripts(o)
	if err != nil {
		return nil, err
	}

	return manifest.Document{
		ConfigKey:         lintConfig,
		"devDependencies": devDeps,
		"scripts":         scripts,
	}, nil
}

// Transform deep-defaults the fragment over the existing manifest text and the
// baseline: fragment keys win, the existing file fills every gap, and the
// baseline fills what remains.
func (o Options) Transform(existing string, answers prompt.Answers) (string, error) {
	fragment, err := o.Fragment(answers)
	if err != nil {
		return "", err
	}

	current, err := manifest.ParseString(existing)
	if err != nil {
		return "", err
	}

	return manifest.MarshalString(manifest.DefaultsDeep(fragment, current, Baseline()))
}
