package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"
	"gopkg.in/yaml.v3"
)

// presetOrder returns the keys of a "presets" mapping in the order they are
// written in the file. It returns nil when presets is absent or not a mapping.
func presetOrder(path string, data []byte) ([]string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return jsonPresetOrder(data)
	case ".yaml", ".yml":
		return yamlPresetOrder(data)
	case ".toml":
		return tomlPresetOrder(data)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
}

func yamlPresetOrder(data []byte) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil
	}

	var names []string
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Value != "presets" || value.Kind != yaml.MappingNode {
			continue
		}
		names = names[:0]
		for j := 0; j+1 < len(value.Content); j += 2 {
			names = append(names, value.Content[j].Value)
		}
	}
	return names, nil
}

func jsonPresetOrder(data []byte) ([]string, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}
	value, ok := top["presets"]
	if !ok {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(value))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil
	}
	names := []string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)
		names = append(names, name)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// tomlPresetOrder walks the document expression by expression. Preset keys
// can appear under a [presets] table, as dotted presets.<name> keys, or in
// an inline presets = { ... } table.
func tomlPresetOrder(data []byte) ([]string, error) {
	var p unstable.Parser
	p.Reset(data)

	var (
		names []string
		table []string
	)
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = keyParts(expr.Key())
		case unstable.KeyValue:
			full := append(append([]string{}, table...), keyParts(expr.Key())...)
			switch {
			case len(full) == 2 && full[0] == "presets":
				names = append(names, full[1])
			case len(full) == 1 && full[0] == "presets" && expr.Value().Kind == unstable.InlineTable:
				it := expr.Value().Children()
				for it.Next() {
					kv := it.Node()
					if kv.Kind != unstable.KeyValue {
						continue
					}
					if parts := keyParts(kv.Key()); len(parts) > 0 {
						names = append(names, parts[0])
					}
				}
			}
		}
	}
	if err := p.Error(); err != nil {
		return nil, err
	}
	return names, nil
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}
