package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/fulmenhq/stylelint-provision/pkg/presets"
	"github.com/fulmenhq/stylelint-provision/pkg/provision"
)

// presetFlag collects repeated --preset values. A single bare name selects a
// built-in preset; name=version entries (or several names) form a custom list.
type presetFlag struct {
	entries []string
}

var _ pflag.Value = (*presetFlag)(nil)

func (f *presetFlag) String() string { return strings.Join(f.entries, " ") }

func (f *presetFlag) Type() string { return "name[=version]" }

func (f *presetFlag) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasPrefix(value, "=") {
		return fmt.Errorf("expected name or name=version, got %q", value)
	}
	f.entries = append(f.entries, value)
	return nil
}

// Selection converts the collected values, keeping their order.
func (f *presetFlag) Selection() (provision.PresetSelection, error) {
	if len(f.entries) == 1 && !strings.Contains(f.entries[0], "=") {
		return provision.NamedPreset(f.entries[0]), nil
	}

	custom := make([]provision.CustomPreset, 0, len(f.entries))
	for _, e := range f.entries {
		name, version, ok := strings.Cut(e, "=")
		if !ok {
			// A bare built-in name inside a list keeps its table version.
			p, err := presets.Lookup(name)
			if err != nil {
				return provision.PresetSelection{}, err
			}
			name, version = p.Package(), p.Version()
		}
		custom = append(custom, provision.CustomPreset{Name: strings.TrimSpace(name), Version: strings.TrimSpace(version)})
	}
	return provision.CustomPresets(custom...), nil
}

// answerFlag collects repeated --answer key=value pairs.
type answerFlag struct {
	values map[string]string
}

var _ pflag.Value = (*answerFlag)(nil)

func (f *answerFlag) String() string {
	pairs := make([]string, 0, len(f.values))
	for k, v := range f.values {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (f *answerFlag) Type() string { return "key=value" }

func (f *answerFlag) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[key] = strings.TrimSpace(val)
	return nil
}
