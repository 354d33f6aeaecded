// Package docschema validates JSON documents submitted to the API against
// the order and product schemas embedded in this package.
package docschema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	OrderSchema   = "order.schema.json"
	ProductSchema = "product.schema.json"
)

// FieldError is one schema violation at a JSON pointer location.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError carries every leaf violation of a document.
type ValidationError struct {
	Schema string       `json:"-"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Path+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", e.Schema, strings.Join(parts, "; "))
}

// Validator holds the compiled schemas. It is safe for concurrent use.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// New compiles the embedded schemas.
func New() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	names := []string{OrderSchema, ProductSchema}
	for _, name := range names {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("docschema: read %s: %w", name, err)
		}
		if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("docschema: load %s: %w", name, err)
		}
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(names))}
	for _, name := range names {
		s, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("docschema: compile %s: %w", name, err)
		}
		v.schemas[name] = s
	}
	return v, nil
}

// ValidateOrder checks a raw order intake document.
func (v *Validator) ValidateOrder(data []byte) error {
	return v.validate(OrderSchema, data)
}

// CleanOrder trims surrounding whitespace from every string in an order
// document, validates the trimmed document and returns it re-encoded.
// Length rules therefore apply to the values that get stored.
func (v *Validator) CleanOrder(data []byte) ([]byte, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ValidationError{Schema: OrderSchema, Fields: []FieldError{{Path: "", Message: "invalid JSON: " + err.Error()}}}
	}
	doc = trimStrings(doc)
	if err := v.validateDoc(OrderSchema, doc); err != nil {
		return nil, err
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("docschema: encode %s: %w", OrderSchema, err)
	}
	return out, nil
}

// ValidateProduct checks a raw product document.
func (v *Validator) ValidateProduct(data []byte) error {
	return v.validate(ProductSchema, data)
}

func (v *Validator) validate(name string, data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Schema: name, Fields: []FieldError{{Path: "", Message: "invalid JSON: " + err.Error()}}}
	}
	return v.validateDoc(name, doc)
}

func (v *Validator) validateDoc(name string, doc any) error {
	s, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("docschema: unknown schema %q", name)
	}
	if err := s.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return &ValidationError{Schema: name, Fields: flatten(ve)}
		}
		return err
	}
	return nil
}

func trimStrings(v any) any {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		for k, e := range t {
			t[k] = trimStrings(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = trimStrings(e)
		}
		return t
	default:
		return v
	}
}

// flatten collects the leaf causes, which carry the specific messages.
func flatten(ve *jsonschema.ValidationError) []FieldError {
	var out []FieldError
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, FieldError{Path: e.InstanceLocation, Message: e.Message})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// HasField reports whether err is a ValidationError mentioning path.
func HasField(err error, path string) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	for _, f := range ve.Fields {
		if f.Path == path {
			return true
		}
	}
	return false
}
