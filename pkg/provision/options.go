package provision

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fulmenhq/stylelint-provision/pkg/presets"
)

const (
	// QuestionName is the answer key holding the interactively chosen preset.
	QuestionName = "stylelintPreset"
	// LinterPackage is the npm package of the linter itself.
	LinterPackage = "stylelint"
	// ConfigKey is the package.json key stylelint reads its config from.
	ConfigKey = "stylelint"

	DefaultScriptName    = "lint"
	DefaultLinterVersion = "^4.3.5"
	DefaultAfter         = "npm install"
	DefaultSourceDir     = "src"
)

// ErrInvalidOptions wraps every Options.Validate failure.
var ErrInvalidOptions = errors.New("invalid options")

// CustomPreset is a caller-supplied shareable config and the version to install.
type CustomPreset struct {
	Name    string `json:"name" mapstructure:"name"`
	Version string `json:"version" mapstructure:"version"`
}

type selectionKind int

const (
	selectionUnset selectionKind = iota
	selectionNamed
	selectionCustom
)

// PresetSelection is how the caller picked presets: not at all (the user is
// asked), by a single table name, or by an explicit name→version list.
type PresetSelection struct {
	kind   selectionKind
	name   string
	custom []CustomPreset
}

// NamedPreset selects one preset from the table. An empty name selects nothing.
func NamedPreset(name string) PresetSelection {
	if strings.TrimSpace(name) == "" {
		return PresetSelection{}
	}
	return PresetSelection{kind: selectionNamed, name: strings.TrimSpace(name)}
}

// CustomPresets selects explicit presets in the given order. Calling it with
// no arguments is a supplied, empty selection: nothing is installed and no
// question is asked.
func CustomPresets(ps ...CustomPreset) PresetSelection {
	custom := make([]CustomPreset, len(ps))
	copy(custom, ps)
	return PresetSelection{kind: selectionCustom, custom: custom}
}

// Supplied reports whether the caller made any selection.
func (s PresetSelection) Supplied() bool {
	return s.kind != selectionUnset
}

// Name returns the selected table preset name, if that is how presets were chosen.
func (s PresetSelection) Name() (string, bool) {
	return s.name, s.kind == selectionNamed
}

// Custom returns a copy of the explicit presets, if that is how presets were chosen.
func (s PresetSelection) Custom() ([]CustomPreset, bool) {
	if s.kind != selectionCustom {
		return nil, false
	}
	out := make([]CustomPreset, len(s.custom))
	copy(out, s.custom)
	return out, true
}

func (s PresetSelection) String() string {
	switch s.kind {
	case selectionNamed:
		return s.name
	case selectionCustom:
		parts := make([]string, len(s.custom))
		for i, c := range s.custom {
			parts[i] = c.Name + "=" + c.Version
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<ask>"
	}
}

// Options configures the stylelint provisioner.
type Options struct {
	// LintConfig replaces the generated {"extends": [...]} config verbatim.
	LintConfig map[string]any
	// ScriptName is the npm script that runs the linter.
	ScriptName string
	Presets    PresetSelection
	// Pretest adds "pretest": "npm run <ScriptName>".
	Pretest bool
	// FormatScriptName adds an autofix script under this name when non-empty.
	FormatScriptName string
	LinterVersion    string
	// After is the shell command run once the manifest was written.
	After string
}

// Option mutates Options during NewOptions.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		ScriptName:    DefaultScriptName,
		LinterVersion: DefaultLinterVersion,
		After:         DefaultAfter,
	}
}

// NewOptions applies opts over DefaultOptions.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithLintConfig(cfg map[string]any) Option {
	return func(o *Options) { o.LintConfig = cfg }
}

func WithScriptName(name string) Option {
	return func(o *Options) { o.ScriptName = name }
}

func WithPreset(name string) Option {
	return func(o *Options) { o.Presets = NamedPreset(name) }
}

func WithCustomPresets(ps ...CustomPreset) Option {
	return func(o *Options) { o.Presets = CustomPresets(ps...) }
}

func WithPresetSelection(sel PresetSelection) Option {
	return func(o *Options) { o.Presets = sel }
}

func WithPretest(enabled bool) Option {
	return func(o *Options) { o.Pretest = enabled }
}

func WithFormatScriptName(name string) Option {
	return func(o *Options) { o.FormatScriptName = name }
}

func WithLinterVersion(version string) Option {
	return func(o *Options) { o.LinterVersion = version }
}

func WithAfter(command string) Option {
	return func(o *Options) { o.After = command }
}

// Validate checks everything that can be checked before answers are known.
func (o Options) Validate() error {
	var errs []error

	if strings.TrimSpace(o.ScriptName) == "" {
		errs = append(errs, errors.New("script name must not be empty"))
	}
	if o.Pretest && o.ScriptName == "pretest" {
		errs = append(errs, errors.New(`script name "pretest" would make the pretest script call itself`))
	}
	if o.FormatScriptName != "" {
		if o.FormatScriptName == o.ScriptName {
			errs = append(errs, fmt.Errorf("format script name %q collides with the lint script", o.FormatScriptName))
		}
		if o.Pretest && o.FormatScriptName == "pretest" {
			errs = append(errs, errors.New(`format script name "pretest" collides with the pretest script`))
		}
	}
	if err := presets.ValidateSpecifier(o.LinterVersion); err != nil {
		errs = append(errs, fmt.Errorf("linter version: %w", err))
	}

	if name, ok := o.Presets.Name(); ok {
		if _, err := presets.Lookup(name); err != nil {
			errs = append(errs, err)
		}
	}
	if custom, ok := o.Presets.Custom(); ok {
		for _, c := range custom {
			if _, err := presets.Normalize(c.Name); err != nil {
				errs = append(errs, err)
				continue
			}
			if err := presets.ValidateSpecifier(c.Version); err != nil {
				errs = append(errs, fmt.Errorf("preset %s: %w", c.Name, err))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidOptions, errors.Join(errs...))
}
