package converter

import (
	"encoding/json"

	"github.com/buger/jsonparser"

	"github.com/usestring/trace-har/pkg/tracesource"
)

const (
	// TraceMember is the primary trace event log.
	TraceMember = "trace.trace"

	// TypeContextOptions marks the record describing the browser context.
	TypeContextOptions = "context-options"
)

// ContextOptions is the subset of the context-options record used in the HAR.
type ContextOptions struct {
	Type              string `json:"type"`
	BrowserName       string `json:"browserName"`
	PlaywrightVersion string `json:"playwrightVersion"`
}

// LoadContextOptions returns the first context-options record of the trace
// event log. Lines that do not parse are skipped rather than reported, and a
// trace without an event log or without such a record yields the zero value.
// Only the record's type must be a string; scalar browserName and
// playwrightVersion values are kept in their JSON text form.
func LoadContextOptions(src tracesource.Source) ContextOptions {
	if !src.Has(TraceMember) {
		return ContextOptions{}
	}

	for line, err := range src.Lines(TraceMember) {
		if err != nil {
			return ContextOptions{}
		}

		data := []byte(line)
		if !json.Valid(data) {
			continue
		}
		if _, dataType, _, _ := jsonparser.Get(data); dataType != jsonparser.Object {
			continue
		}
		if typ, _ := jsonparser.GetString(data, "type"); typ != TypeContextOptions {
			continue
		}

		return ContextOptions{
			Type:              TypeContextOptions,
			BrowserName:       scalarField(data, "browserName"),
			PlaywrightVersion: scalarField(data, "playwrightVersion"),
		}
	}

	return ContextOptions{}
}

// scalarField reads key as a string. Numbers and booleans keep their JSON
// text; objects, arrays and null read as absent.
func scalarField(data []byte, key string) string {
	value, dataType, _, err := jsonparser.Get(data, key)
	if err != nil {
		return ""
	}
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return ""
		}
		return s
	case jsonparser.Number, jsonparser.Boolean:
		return string(value)
	}
	return ""
}
