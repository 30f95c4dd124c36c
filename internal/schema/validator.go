package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/stylelint-provision/internal/assets"
)

// ValidationError represents a single validation error.
type ValidationError struct {
	Path    string `json:"path,omitempty"` // e.g. "presets" or "lint_config"
	Message string `json:"message"`
}

// Result holds the validation result.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// registry holds pre-compiled schemas keyed by registry name.
var registry = make(map[string]*gojsonschema.Schema)

func init() {
	for _, info := range assets.GetSchemaNames() {
		schema, err := compile(info.Path)
		if err != nil {
			continue
		}
		registry[info.Name] = schema
	}
}

func compile(path string) (*gojsonschema.Schema, error) {
	schemaBytes, ok := assets.GetSchema(path)
	if !ok || len(schemaBytes) == 0 {
		return nil, fmt.Errorf("schema %s not embedded", path)
	}

	// gojsonschema only reads JSON
	var schemaData interface{}
	if err := yaml.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, err
	}
	jsonBytes, err := json.Marshal(schemaData)
	if err != nil {
		return nil, err
	}
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jsonBytes))
}

// Validate validates data against the named schema.
func Validate(data interface{}, schemaName string) (*Result, error) {
	schema, ok := registry[schemaName]
	if !ok {
		return nil, fmt.Errorf("schema %s not found in registry", schemaName)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	res := &Result{Valid: result.Valid()}
	for _, verr := range result.Errors() {
		field := verr.Field()
		if field == "" || field == "(root)" {
			field = "root"
		}
		res.Errors = append(res.Errors, ValidationError{
			Path:    field,
			Message: verr.Description(),
		})
	}
	sort.SliceStable(res.Errors, func(i, j int) bool { return res.Errors[i].Path < res.Errors[j].Path })

	return res, nil
}
