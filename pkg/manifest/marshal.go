package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Indent is the indentation npm itself writes package.json with.
const Indent = "  "

// topLevelOrder is the conventional field order of package.json, following
// the layout popularised by sort-package-json.
var topLevelOrder = []string{
	"$schema", "name", "displayName", "version", "private", "description",
	"categories", "keywords", "homepage", "bugs", "repository", "funding",
	"license", "qna", "author", "maintainers", "contributors", "publisher",
	"sideEffects", "type", "imports", "exports", "main", "svelte", "umd:main",
	"jsdelivr", "unpkg", "module", "source", "jsnext:main", "browser",
	"react-native", "types", "typesVersions", "typings", "style", "example",
	"examplestyle", "assets", "bin", "man", "directories", "files",
	"workspaces", "binary", "scripts", "betterScripts", "contributes",
	"activationEvents", "husky", "simple-git-hooks", "pre-commit",
	"commitlint", "lint-staged", "config", "nodemonConfig", "browserify",
	"babel", "browserslist", "xo", "prettier", "eslintConfig", "eslintIgnore",
	"npmpackagejsonlint", "release", "remarkConfig", "stylelint", "ava",
	"jest", "mocha", "nyc", "c8", "tap", "resolutions", "dependencies",
	"devDependencies", "dependenciesMeta", "peerDependencies",
	"peerDependenciesMeta", "optionalDependencies", "bundledDependencies",
	"bundleDependencies", "extensionPack", "extensionDependencies", "flat",
	"packageManager", "engines", "engineStrict", "volta", "languageName", "os",
	"cpu", "preferGlobal", "publishConfig", "icon", "badges", "galleryBanner",
	"preview", "markdown",
}

var topLevelRank = func() map[string]int {
	m := make(map[string]int, len(topLevelOrder))
	for i, k := range topLevelOrder {
		m[k] = i
	}
	return m
}()

// Marshal serializes doc with deterministic key order and a trailing newline.
func Marshal(doc Document) ([]byte, error) {
	var compact bytes.Buffer
	if err := encodeObject(&compact, doc, layoutTop); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", Indent); err != nil {
		return nil, fmt.Errorf("indent manifest: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// MarshalString is Marshal returning a string.
func MarshalString(doc Document) (string, error) {
	b, err := Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// OrderedKeys returns the keys of a top-level document in output order.
func OrderedKeys(doc Document) []string {
	return orderTopLevel(keysOf(doc))
}

func orderTopLevel(keys []string) []string {
	sort.SliceStable(keys, func(i, j int) bool {
		ri, iok := topLevelRank[keys[i]]
		rj, jok := topLevelRank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// orderScripts sorts alphabetically by base name and keeps pre<name> and
// post<name> hooks next to the script they wrap.
func orderScripts(keys []string) []string {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}
	type entry struct {
		key  string
		base string
		rank int
	}
	entries := make([]entry, len(keys))
	for i, k := range keys {
		e := entry{key: k, base: k, rank: 1}
		if b := strings.TrimPrefix(k, "pre"); b != k && present[b] {
			e.base, e.rank = b, 0
		} else if b := strings.TrimPrefix(k, "post"); b != k && present[b] {
			e.base, e.rank = b, 2
		}
		entries[i] = e
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].base != entries[j].base {
			return entries[i].base < entries[j].base
		}
		if entries[i].rank != entries[j].rank {
			return entries[i].rank < entries[j].rank
		}
		return entries[i].key < entries[j].key
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.key
	}
	return out
}

func orderAlphabetical(keys []string) []string {
	sort.Strings(keys)
	return keys
}

func keysOf(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

type layout int

const (
	layoutPlain layout = iota
	layoutTop
	layoutScripts
)

func (l layout) order(keys []string) []string {
	switch l {
	case layoutTop:
		return orderTopLevel(keys)
	case layoutScripts:
		return orderScripts(keys)
	default:
		return orderAlphabetical(keys)
	}
}

func encodeObject(buf *bytes.Buffer, m map[string]any, l layout) error {
	buf.WriteByte('{')
	for i, k := range l.order(keysOf(m)) {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeScalar(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		child := layoutPlain
		if l == layoutTop && k == "scripts" {
			child = layoutScripts
		}
		if err := encodeValue(buf, m[k], child); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeValue(buf *bytes.Buffer, v any, l layout) error {
	switch t := v.(type) {
	case map[string]any:
		return encodeObject(buf, t, l)
	case Document:
		return encodeObject(buf, t, l)
	case []any:
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, e, layoutPlain); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case []string:
		return encodeValue(buf, Clone(t), l)
	default:
		return encodeScalar(buf, v)
	}
}

func encodeScalar(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
