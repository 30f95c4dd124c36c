package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/stylelint-provision/internal/assets"
	"github.com/fulmenhq/stylelint-provision/internal/schema"
	"github.com/fulmenhq/stylelint-provision/pkg/provision"
	"github.com/fulmenhq/stylelint-provision/pkg/safeio"
)

const (
	// FileBaseName is the config file name without extension.
	FileBaseName = ".stylelint-provision"
	// EnvPrefix prefixes every environment override, e.g. STYLELINT_PROVISION_SCRIPT_NAME.
	EnvPrefix = "STYLELINT_PROVISION"
)

// ErrInvalidConfig is returned when a config file cannot be read or fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds provisioner settings from file and environment.
type Config struct {
	ScriptName       string `mapstructure:"script_name"`
	Pretest          bool   `mapstructure:"pretest"`
	FormatScriptName string `mapstructure:"format_script_name"`
	LinterVersion    string `mapstructure:"linter_version"`
	After            string `mapstructure:"after"`
	SkipAfter        bool   `mapstructure:"skip_after"`
	RequireClean     bool   `mapstructure:"require_clean"`
	MaxWorkers       int    `mapstructure:"max_workers"`

	// Case-sensitive sections are decoded from the raw file, not through viper.
	Presets    provision.PresetSelection `mapstructure:"-"`
	LintConfig map[string]any            `mapstructure:"-"`
	Answers    map[string]string         `mapstructure:"-"`

	// Source is the config file that was read; empty when none was found.
	Source string `mapstructure:"-"`
}

// LoadOptions controls where configuration is looked up.
type LoadOptions struct {
	// File is an explicit config file; it must exist when set.
	File string
	// Dirs are searched in order for FileBaseName with a supported extension.
	Dirs []string
}

// DefaultSearchDirs returns the lookup order for a project directory.
func DefaultSearchDirs(projectDir string) []string {
	dirs := []string{}
	if projectDir != "" && projectDir != "." {
		dirs = append(dirs, projectDir)
	}
	return append(dirs, ".", "$HOME")
}

func setDefaults(v *viper.Viper) {
	d := provision.DefaultOptions()
	v.SetDefault("script_name", d.ScriptName)
	v.SetDefault("pretest", d.Pretest)
	v.SetDefault("format_script_name", d.FormatScriptName)
	v.SetDefault("linter_version", d.LinterVersion)
	v.SetDefault("after", d.After)
	v.SetDefault("skip_after", false)
	v.SetDefault("require_clean", false)
	v.SetDefault("max_workers", 0)
}

// Load reads defaults, the first config file found and STYLELINT_PROVISION_*
// environment variables, in increasing precedence.
func Load(opts LoadOptions) (*Config, error) {
	// "::" so preset names such as "stylelint-config-foo.v2" are not split
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	setDefaults(v)

	if opts.File != "" {
		clean, err := safeio.CleanUserPath(opts.File)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		v.SetConfigFile(clean)
	} else {
		v.SetConfigName(FileBaseName)
		for _, dir := range opts.Dirs {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg.Source = v.ConfigFileUsed()
	var (
		raw   map[string]any
		order []string
	)
	if cfg.Source != "" {
		var err error
		if raw, order, err = readRaw(cfg.Source); err != nil {
			return nil, err
		}
		if err := validate(cfg.Source, raw); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyRaw(raw, order); err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(os.Getenv(EnvPrefix + "_PRESETS")); name != "" {
		cfg.Presets = provision.NamedPreset(name)
	}
	return &cfg, nil
}

// readRaw decodes the config file without viper's key lowercasing, along
// with the written order of the presets mapping.
func readRaw(path string) (map[string]any, []string, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path was located by viper or given by the user
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	raw := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		err = fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	order, err := presetOrder(path, data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return raw, order, nil
}

func validate(path string, raw map[string]any) error {
	res, err := schema.Validate(raw, assets.ConfigSchemaName)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	if res.Valid {
		return nil
	}
	msgs := make([]string, len(res.Errors))
	for i, e := range res.Errors {
		msgs[i] = e.Path + ": " + e.Message
	}
	return fmt.Errorf("%w: %s:\n  %s", ErrInvalidConfig, path, strings.Join(msgs, "\n  "))
}

func (c *Config) applyRaw(raw map[string]any, order []string) error {
	switch p := raw["presets"].(type) {
	case nil:
	case string:
		c.Presets = provision.NamedPreset(p)
	case map[string]any:
		names := orderedNames(p, order)
		custom := make([]provision.CustomPreset, 0, len(names))
		for _, name := range names {
			version, ok := p[name].(string)
			if !ok {
				return fmt.Errorf("%w: presets.%s: version must be a string", ErrInvalidConfig, name)
			}
			custom = append(custom, provision.CustomPreset{Name: name, Version: version})
		}
		c.Presets = provision.CustomPresets(custom...)
	default:
		return fmt.Errorf("%w: presets must be a name or a mapping", ErrInvalidConfig)
	}

	if lc, ok := raw["lint_config"].(map[string]any); ok {
		c.LintConfig = lc
	}

	if answers, ok := raw["answers"].(map[string]any); ok {
		c.Answers = make(map[string]string, len(answers))
		for k, v := range answers {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("%w: answers.%s must be a string", ErrInvalidConfig, k)
			}
			c.Answers[k] = s
		}
	}
	return nil
}

// orderedNames lists the keys of m in written order. Keys the order does not
// know about follow alphabetically.
func orderedNames(m map[string]any, order []string) []string {
	names := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, name := range order {
		if _, ok := m[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	var rest []string
	for name := range m {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Options converts the settings into provisioner options.
func (c *Config) Options() provision.Options {
	return provision.NewOptions(
		provision.WithScriptName(c.ScriptName),
		provision.WithPretest(c.Pretest),
		provision.WithFormatScriptName(c.FormatScriptName),
		provision.WithLinterVersion(c.LinterVersion),
		provision.WithAfter(c.After),
		provision.WithPresetSelection(c.Presets),
		provision.WithLintConfig(c.LintConfig),
	)
}
