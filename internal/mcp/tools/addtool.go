package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a typed tool after checking its output type with
// CheckOutputSchema.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema panics when an empty T would be rejected by the output
// schema the SDK infers for T. Two shapes trip it: slices encoded as null
// (no omitzero) and raw JSON bodies, which the schema sees as byte arrays.
func CheckOutputSchema[T any](toolName string) {
	if err := outputSchemaError(reflect.TypeFor[T]()); err != nil {
		panic(fmt.Sprintf("tool %s: %v", toolName, err))
	}
}

var errRawJSON = errors.New("raw JSON field; return a summary struct or decoded value instead")

func outputSchemaError(rt reflect.Type) error {
	if rt == reflect.TypeFor[any]() {
		return nil
	}
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if paths := rawJSONPaths(rt, "", map[reflect.Type]bool{}); len(paths) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(paths, ", "), errRawJSON)
	}

	// Inference failures surface again from sdkmcp.AddTool with its own message.
	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return nil
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return nil
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return nil
	}
	var zero map[string]any
	if err := json.Unmarshal(data, &zero); err != nil {
		return nil
	}
	if err := resolved.Validate(&zero); err != nil {
		return fmt.Errorf("empty %s encodes as %s, which fails its schema (add omitzero to slice fields): %w", rt, data, err)
	}
	return nil
}

var marshalerType = reflect.TypeFor[json.Marshaler]()

// isRawJSON matches byte slices that marshal themselves, such as
// json.RawMessage and har.Entry.
func isRawJSON(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 && t.Implements(marshalerType)
}

// rawJSONPaths lists the JSON paths under t that hold raw JSON, e.g.
// "entries[]" or "detail.body".
func rawJSONPaths(t reflect.Type, path string, seen map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if isRawJSON(t) {
		return []string{path}
	}
	if seen[t] {
		return nil
	}
	seen[t] = true
	defer delete(seen, t)

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return rawJSONPaths(t.Elem(), path+"[]", seen)
	case reflect.Map:
		return rawJSONPaths(t.Elem(), path+"{}", seen)
	case reflect.Struct:
		var paths []string
		for f := range fieldsOf(t) {
			name := jsonName(f)
			if name == "-" {
				continue
			}
			if path != "" {
				name = path + "." + name
			}
			paths = append(paths, rawJSONPaths(f.Type, name, seen)...)
		}
		return paths
	}
	return nil
}

func fieldsOf(t reflect.Type) func(yield func(reflect.StructField) bool) {
	return func(yield func(reflect.StructField) bool) {
		for i := range t.NumField() {
			if f := t.Field(i); f.IsExported() && !yield(f) {
				return
			}
		}
	}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return name
}
