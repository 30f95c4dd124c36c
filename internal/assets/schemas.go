package assets

import (
	"embed"
	"encoding/json"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed embedded_schemas
var schemaFS embed.FS

// ConfigSchemaName is the registry name of the current config schema.
const ConfigSchemaName = "stylelint-provision-config-v1"

// SchemaInfo holds schema metadata.
type SchemaInfo struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Draft string `json:"draft"`
}

var knownSchemas = map[string]string{
	ConfigSchemaName: "embedded_schemas/config/stylelint-provision-config-v1.yaml",
}

// GetSchema returns the embedded schema bytes by path (e.g., "embedded_schemas/config/x.yaml").
func GetSchema(relPath string) ([]byte, bool) {
	data, err := schemaFS.ReadFile(relPath)
	return data, err == nil
}

// SchemaPath returns the embed path registered under name.
func SchemaPath(name string) (string, bool) {
	p, ok := knownSchemas[name]
	return p, ok
}

// GetSchemaNames returns the embedded schemas, sorted by name.
func GetSchemaNames() []SchemaInfo {
	var infos []SchemaInfo
	for name, path := range knownSchemas {
		if _, ok := GetSchema(path); ok {
			infos = append(infos, SchemaInfo{Name: name, Path: path, Draft: detectDraft(path)})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// detectDraft heuristically detects draft from schema bytes via $schema key.
func detectDraft(path string) string {
	bytes, ok := GetSchema(path)
	if !ok {
		return "Unknown"
	}
	var doc interface{}
	if err := yaml.Unmarshal(bytes, &doc); err != nil {
		if err := json.Unmarshal(bytes, &doc); err != nil {
			return "Unknown"
		}
	}
	if m, ok := doc.(map[string]interface{}); ok {
		if v, ok := m["$schema"].(string); ok {
			switch {
			case strings.Contains(v, "draft-07"):
				return "Draft-07"
			case strings.Contains(v, "2020-12"):
				return "Draft-2020-12"
			}
		}
	}
	return "Unknown"
}
