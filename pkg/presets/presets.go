// Package presets holds the table of stylelint shareable configs the
// provisioner knows how to install, and the naming rules for config packages.
package presets

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Prefix is the npm package namespace of stylelint shareable configs.
const Prefix = "stylelint-config-"

var (
	// ErrUnknownPreset is returned when a preset name is not in the table.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrInvalidName is returned for empty or prefix-only preset names.
	ErrInvalidName = errors.New("invalid preset name")
	// ErrInvalidSpecifier is returned for version specifiers npm would not accept.
	ErrInvalidSpecifier = errors.New("invalid version specifier")
)

// Preset is a known stylelint shareable config.
type Preset string

const (
	Strict     Preset = "strict"
	Standard   Preset = "standard"
	SuitCSS    Preset = "suitcss"
	CSSRecipes Preset = "cssrecipes"
	WordPress  Preset = "wordpress"
)

// ordered is the declaration order used for question choices and listings.
var ordered = []Preset{Strict, Standard, SuitCSS, CSSRecipes, WordPress}

var versions = map[Preset]string{
	Strict:     "^2.0.0",
	Standard:   "^3.0.0",
	SuitCSS:    "^4.0.0",
	CSSRecipes: "^2.0.1",
	WordPress:  "^2.0.2",
}

var lower = cases.Lower(language.Und)

// All returns the known presets in declaration order.
func All() []Preset {
	out := make([]Preset, len(ordered))
	copy(out, ordered)
	return out
}

// Names returns the known preset names in declaration order.
func Names() []string {
	out := make([]string, len(ordered))
	for i, p := range ordered {
		out[i] = string(p)
	}
	return out
}

// Lookup resolves a preset by name. Matching is case-insensitive and an
// already-prefixed package name is accepted.
func Lookup(name string) (Preset, error) {
	key := strings.TrimPrefix(lower.String(strings.TrimSpace(name)), Prefix)
	p := Preset(key)
	if _, ok := versions[p]; !ok {
		return "", fmt.Errorf("%w: %q (known: %s)", ErrUnknownPreset, name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Version returns the version specifier installed for the preset.
func (p Preset) Version() string {
	return versions[p]
}

// Package returns the npm package name of the preset.
func (p Preset) Package() string {
	return Prefix + string(p)
}

// Normalize returns the package name for a preset name, stripping the prefix
// when already present so it occurs exactly once. The prefix is matched
// case-insensitively, as in Lookup.
func Normalize(name string) (string, error) {
	base := strings.TrimSpace(name)
	if folded := lower.String(base); strings.HasPrefix(folded, Prefix) {
		base = base[len(Prefix):]
	}
	if base == "" || lower.String(base) == strings.TrimSuffix(Prefix, "-") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return Prefix + base, nil
}

var (
	distTag          = regexp.MustCompile(`^[a-z][a-z0-9._-]*$`)
	protocolPrefixes = []string{"npm:", "file:", "link:", "workspace:", "git+", "git:", "github:", "http:", "https:"}
)

// ValidateSpecifier checks that specifier is something npm accepts as a dependency
// version: a semver range, a dist-tag, or a protocol specifier.
func ValidateSpecifier(specifier string) error {
	s := strings.TrimSpace(specifier)
	if s == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSpecifier)
	}
	for _, prefix := range protocolPrefixes {
		if strings.HasPrefix(s, prefix) {
			return nil
		}
	}
	if s == "*" {
		return nil
	}
	if _, err := semver.NewConstraint(s); err == nil {
		return nil
	}
	if distTag.MatchString(s) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidSpecifier, specifier)
}
