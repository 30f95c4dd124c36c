package provision

import (
	"errors"
	"fmt"

	"github.com/fulmenhq/stylelint-provision/pkg/presets"
	"github.com/fulmenhq/stylelint-provision/pkg/prompt"
)

// ErrNoPresetChosen is returned when presets were neither configured nor answered.
var ErrNoPresetChosen = errors.New("no stylelint preset chosen")

// Dependency is an npm package and the version specifier to install.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ResolvePresets turns the configured selection, or failing that the answer
// to the preset question, into config packages in extends order. Every name
// carries the stylelint-config- prefix exactly once.
func ResolvePresets(sel PresetSelection, answers prompt.Answers) ([]Dependency, error) {
	if !sel.Supplied() {
		answer, ok := answers[QuestionName]
		if !ok || answer == "" {
			return nil, ErrNoPresetChosen
		}
		sel = NamedPreset(answer)
	}

	if name, ok := sel.Name(); ok {
		p, err := presets.Lookup(name)
		if err != nil {
			return nil, err
		}
		return []Dependency{{Name: p.Package(), Version: p.Version()}}, nil
	}

	custom, _ := sel.Custom()
	deps := make([]Dependency, 0, len(custom))
	index := make(map[string]int, len(custom))
	for _, c := range custom {
		pkg, err := presets.Normalize(c.Name)
		if err != nil {
			return nil, err
		}
		if err := presets.ValidateSpecifier(c.Version); err != nil {
			return nil, fmt.Errorf("preset %s: %w", c.Name, err)
		}
		// foo and stylelint-config-foo name the same package; the later
		// version wins but the first position is kept.
		if i, dup := index[pkg]; dup {
			deps[i].Version = c.Version
			continue
		}
		index[pkg] = len(deps)
		deps = append(deps, Dependency{Name: pkg, Version: c.Version})
	}
	return deps, nil
}
