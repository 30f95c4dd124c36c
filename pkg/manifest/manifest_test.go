package manifest

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc, err := ParseString(`{"name":"demo","version":"1.0.0","nested":{"n":1.50}}`)
	require.NoError(t, err)
	assert.Equal(t, "demo", doc["name"])

	nested, ok := doc["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("1.50"), nested["n"])
}

func TestParseStripsBOM(t *testing.T) {
	doc, err := Parse(append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"a":"b"}`)...))
	require.NoError(t, err)
	assert.Equal(t, "b", doc["a"])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"empty", "", "empty document"},
		{"syntax", `{"a":}`, "invalid JSON at offset"},
		{"truncated", `{"a":1`, "invalid JSON"},
		{"array", `[1,2]`, "must be an object, got array"},
		{"string", `"x"`, "must be an object, got string"},
		{"trailing data", `{"a":1} {"b":2}`, "unexpected data after top-level object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Contains(t, err.Error(), tt.msg)

			var pe *ParseError
			assert.True(t, errors.As(err, &pe))
		})
	}
}

func TestWithFile(t *testing.T) {
	_, err := ParseString(`nope`)
	require.Error(t, err)

	named := WithFile(err, "web/package.json")
	assert.ErrorIs(t, named, ErrMalformed)
	assert.Contains(t, named.Error(), "web/package.json: invalid JSON")

	other := errors.New("other")
	assert.Equal(t, other, WithFile(other, "package.json"))
}

func TestStringAt(t *testing.T) {
	doc := Document{"directories": map[string]any{"src": "styles"}, "name": "x"}

	v, ok := StringAt(doc, "directories", "src")
	assert.True(t, ok)
	assert.Equal(t, "styles", v)

	_, ok = StringAt(doc, "directories", "lib")
	assert.False(t, ok)
	_, ok = StringAt(doc, "name", "deeper")
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	orig := Document{"a": map[string]any{"b": []any{"c"}}, "l": []string{"x"}}
	cp := Clone(orig).(map[string]any)

	cp["a"].(map[string]any)["b"].([]any)[0] = "changed"
	assert.Equal(t, "c", orig["a"].(map[string]any)["b"].([]any)[0])
	assert.Equal(t, []any{"x"}, cp["l"])
}

func TestDefaultsDeep(t *testing.T) {
	target := Document{
		"stylelint":       map[string]any{"extends": []any{"stylelint-config-strict"}},
		"devDependencies": map[string]any{"stylelint": "^4.3.5"},
	}
	existing := Document{
		"name":            "demo",
		"stylelint":       map[string]any{"extends": []any{"a", "b"}, "rules": map[string]any{"x": true}},
		"devDependencies": map[string]any{"stylelint": "^9.0.0", "mocha": "^10.0.0"},
	}
	baseline := Document{"directories": map[string]any{"src": "src"}, "name": "baseline"}

	merged := DefaultsDeep(target, existing, baseline)

	assert.Equal(t, "demo", merged["name"], "earlier source wins over later source")
	assert.Equal(t, map[string]any{"src": "src"}, merged["directories"])
	assert.Equal(t, map[string]any{
		"extends": []any{"stylelint-config-strict"},
		"rules":   map[string]any{"x": true},
	}, merged["stylelint"], "arrays are atomic, objects recurse")
	assert.Equal(t, map[string]any{"stylelint": "^4.3.5", "mocha": "^10.0.0"}, merged["devDependencies"])
}

func TestDefaultsDeepDoesNotMutateInputs(t *testing.T) {
	target := Document{"scripts": map[string]any{"lint": "stylelint"}}
	existing := Document{"scripts": map[string]any{"test": "mocha"}}

	merged := DefaultsDeep(target, existing)
	merged["scripts"].(map[string]any)["test"] = "changed"

	assert.Equal(t, map[string]any{"lint": "stylelint"}, target["scripts"])
	assert.Equal(t, "mocha", existing["scripts"].(map[string]any)["test"])
}

func TestDefaultsDeepScalarBlocksObject(t *testing.T) {
	merged := DefaultsDeep(Document{"stylelint": "off"}, Document{"stylelint": map[string]any{"rules": map[string]any{}}})
	assert.Equal(t, "off", merged["stylelint"])
}

func TestMarshalOrdering(t *testing.T) {
	doc := Document{
		"zeta":            true,
		"devDependencies": map[string]any{"stylelint": "^4.3.5", "autoprefixer": "^10.0.0"},
		"scripts": map[string]any{
			"test":     "mocha",
			"posttest": "echo done",
			"pretest":  "npm run lint",
			"lint":     "stylelint $npm_package_directories_src",
			"prepare":  "husky",
		},
		"name":        "demo",
		"alpha":       1,
		"directories": map[string]any{"src": "src"},
		"stylelint":   map[string]any{"rules": map[string]any{"b": 1, "a": 2}, "extends": []any{"z", "a"}},
	}

	out, err := MarshalString(doc)
	require.NoError(t, err)

	want := `{
  "name": "demo",
  "directories": {
    "src": "src"
  },
  "scripts": {
    "lint": "stylelint $npm_package_directories_src",
    "prepare": "husky",
    "pretest": "npm run lint",
    "test": "mocha",
    "posttest": "echo done"
  },
  "stylelint": {
    "extends": [
      "z",
      "a"
    ],
    "rules": {
      "a": 2,
      "b": 1
    }
  },
  "devDependencies": {
    "autoprefixer": "^10.0.0",
    "stylelint": "^4.3.5"
  },
  "alpha": 1,
  "zeta": true
}
`
	assert.Equal(t, want, out)
}

func TestMarshalEmptyContainers(t *testing.T) {
	out, err := MarshalString(Document{"stylelint": map[string]any{"extends": []any{}}, "x": map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"stylelint\": {\n    \"extends\": []\n  },\n  \"x\": {}\n}\n", out)
}

func TestMarshalDoesNotEscapeHTML(t *testing.T) {
	out, err := MarshalString(Document{"scripts": map[string]any{"lint": "stylelint src && echo <ok>"}})
	require.NoError(t, err)
	assert.Contains(t, out, `"stylelint src && echo <ok>"`)
}

func TestMarshalRoundTripIsStable(t *testing.T) {
	input := `{"version":"1.0.0","name":"demo","big":12345678901234567890,"scripts":{"b":"2","a":"1"}}`
	doc, err := ParseString(input)
	require.NoError(t, err)

	first, err := Marshal(doc)
	require.NoError(t, err)

	again, err := Parse(first)
	require.NoError(t, err)
	second, err := Marshal(again)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Contains(t, string(first), "12345678901234567890")
	assert.True(t, json.Valid(first))
}

func TestOrderedKeys(t *testing.T) {
	keys := OrderedKeys(Document{"b": 1, "devDependencies": 1, "name": 1, "a": 1})
	assert.Equal(t, []string{"name", "devDependencies", "a", "b"}, keys)
}
