package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/stylelint-provision/internal/assets"
)

func decode(t *testing.T, src string) interface{} {
	t.Helper()
	var doc interface{}
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return doc
}

func TestValidate(t *testing.T) {
	valid := decode(t, `
presets:
  foo: "^1.0.0"
  stylelint-config-bar: latest
lint_config:
  rules:
    color-no-invalid-hex: true
script_name: lint:css
pretest: true
max_workers: 4
answers:
  stylelintPreset: strict
`)

	res, err := Validate(valid, assets.ConfigSchemaName)
	require.NoError(t, err)
	assert.True(t, res.Valid, "unexpected errors: %v", res.Errors)
}

func TestValidateNamedPreset(t *testing.T) {
	for _, name := range []string{"standard", "STRICT", "WordPress", "stylelint-config-suitcss"} {
		t.Run(name, func(t *testing.T) {
			res, err := Validate(decode(t, "presets: "+name+"\n"), assets.ConfigSchemaName)
			require.NoError(t, err)
			assert.True(t, res.Valid, "unexpected errors: %v", res.Errors)
		})
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		path string
	}{
		{"unknown key", "scriptName: lint\n", "root"},
		{"unknown preset", "presets: tailwind\n", "presets"},
		{"preset with suffix", "presets: strictly\n", "presets"},
		{"negative workers", "max_workers: -1\n", "max_workers"},
		{"empty script name", "script_name: \"\"\n", "script_name"},
		{"lint config not object", "lint_config: [1]\n", "lint_config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Validate(decode(t, tt.src), assets.ConfigSchemaName)
			require.NoError(t, err)
			assert.False(t, res.Valid)
			require.NotEmpty(t, res.Errors)

			var paths []string
			for _, e := range res.Errors {
				paths = append(paths, e.Path)
			}
			assert.Contains(t, paths, tt.path)
		})
	}
}

func TestValidateUnknownSchema(t *testing.T) {
	_, err := Validate(map[string]interface{}{}, "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in registry")
}
