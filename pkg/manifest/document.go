// Package manifest reads, merges and writes package.json documents.
//
// Documents are plain decoded JSON: objects are map[string]any, arrays are
// []any and numbers stay json.Number so they round-trip unchanged. Output
// ordering never depends on how a document was built.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// FileName is the manifest file name npm reads.
const FileName = "package.json"

// ErrMalformed is matched by every parse failure.
var ErrMalformed = errors.New("malformed manifest")

// Document is a decoded package.json object.
type Document map[string]any

// ParseError describes why manifest text could not be decoded.
type ParseError struct {
	File   string
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	where := "manifest"
	if e.File != "" {
		where = e.File
	}
	if e.Offset > 0 {
		return fmt.Sprintf("%s: invalid JSON at offset %d: %v", where, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s: invalid JSON: %v", where, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports ParseError as ErrMalformed.
func (e *ParseError) Is(target error) bool { return target == ErrMalformed }

// WithFile attaches a file name to a ParseError. Other errors pass through.
func WithFile(err error, file string) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.File == "" {
		cp := *pe
		cp.File = file
		return &cp
	}
	return err
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes manifest text. The top-level value must be an object and
// nothing but whitespace may follow it.
func Parse(data []byte) (Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		pe := &ParseError{Err: err}
		var se *json.SyntaxError
		if errors.As(err, &se) {
			pe.Offset = se.Offset
		}
		if errors.Is(err, io.EOF) {
			pe.Err = errors.New("empty document")
		}
		return nil, pe
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Offset: dec.InputOffset(), Err: errors.New("unexpected data after top-level object")}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &ParseError{Err: fmt.Errorf("top-level value must be an object, got %s", kindOf(v))}
	}
	return Document(obj), nil
}

// ParseString is Parse for string input.
func ParseString(text string) (Document, error) {
	return Parse([]byte(text))
}

// Clone deep-copies decoded JSON. Document values come back as map[string]any
// and []string as []any so merged trees have uniform node types.
func Clone(v any) any {
	switch t := v.(type) {
	case Document:
		return cloneObject(t)
	case map[string]any:
		return cloneObject(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out
	default:
		return v
	}
}

func cloneObject(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Clone(v)
	}
	return out
}

// StringAt returns the string at the given object path.
func StringAt(doc Document, path ...string) (string, bool) {
	var cur any = map[string]any(doc)
	for _, key := range path {
		obj, ok := asObject(cur)
		if !ok {
			return "", false
		}
		if cur, ok = obj[key]; !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}

func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Document:
		return t, true
	default:
		return nil, false
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
