package presets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesOrder(t *testing.T) {
	assert.Equal(t, []string{"strict", "standard", "suitcss", "cssrecipes", "wordpress"}, Names())
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0] = "mutated"
	assert.Equal(t, Strict, All()[0])
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Preset
		version string
	}{
		{"plain", "strict", Strict, "^2.0.0"},
		{"standard", "standard", Standard, "^3.0.0"},
		{"suitcss", "suitcss", SuitCSS, "^4.0.0"},
		{"cssrecipes", "cssrecipes", CSSRecipes, "^2.0.1"},
		{"wordpress", "wordpress", WordPress, "^2.0.2"},
		{"mixed case", "SuitCSS", SuitCSS, "^4.0.0"},
		{"prefixed", "stylelint-config-standard", Standard, "^3.0.0"},
		{"padded", "  wordpress ", WordPress, "^2.0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Lookup(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
			assert.Equal(t, tt.version, p.Version())
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("foo")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Contains(t, err.Error(), `"foo"`)
	assert.Contains(t, err.Error(), "strict, standard")
}

func TestPackage(t *testing.T) {
	assert.Equal(t, "stylelint-config-strict", Strict.Package())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"foo", "stylelint-config-foo", false},
		{"stylelint-config-foo", "stylelint-config-foo", false},
		{"stylelint-config-stylelint-config-foo", "stylelint-config-stylelint-config-foo", false},
		{"@scope/foo", "stylelint-config-@scope/foo", false},
		{"Stylelint-Config-foo", "stylelint-config-foo", false},
		{"STYLELINT-CONFIG-Bar", "stylelint-config-Bar", false},
		{"", "", true},
		{"stylelint-config-", "", true},
		{"stylelint-config", "", true},
		{"Stylelint-Config", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	once, err := Normalize("foo")
	require.NoError(t, err)
	twice, err := Normalize(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestValidateSpecifier(t *testing.T) {
	valid := []string{
		"^1.2.3",
		"~2.0.0",
		"1.x",
		">=1.0.0 <2.0.0",
		"^1.0.0 || ^2.0.0",
		"*",
		"latest",
		"next",
		"npm:stylelint-config-foo@^1.0.0",
		"file:../configs/foo",
		"github:org/stylelint-config-foo",
		"git+https://example.com/foo.git",
		"https://example.com/foo.tgz",
		"workspace:*",
	}
	for _, v := range valid {
		assert.NoError(t, ValidateSpecifier(v), v)
	}

	invalid := []string{"", "   ", "not a version", "^^1"}
	for _, v := range invalid {
		assert.ErrorIs(t, ValidateSpecifier(v), ErrInvalidSpecifier, v)
	}
}
