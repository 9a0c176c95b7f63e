package har

import (
	"errors"

	"github.com/buger/jsonparser"
	"github.com/invopop/jsonschema"
)

// Entry is one HAR entry kept as raw JSON so that the field order and any
// fields this package does not model survive conversion unchanged.
type Entry []byte

// MarshalJSON returns e verbatim.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	return e, nil
}

// UnmarshalJSON stores a copy of data.
func (e *Entry) UnmarshalJSON(data []byte) error {
	if e == nil {
		return errors.New("har.Entry: UnmarshalJSON on nil pointer")
	}
	*e = append((*e)[0:0], data...)
	return nil
}

// JSONSchema describes the minimum shape of an entry. Everything beyond
// request and response is passed through from the trace as recorded.
func (Entry) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("pageref", &jsonschema.Schema{Type: "string"})
	props.Set("startedDateTime", &jsonschema.Schema{Type: "string"})
	props.Set("request", &jsonschema.Schema{Type: "object"})
	props.Set("response", &jsonschema.Schema{Type: "object"})
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   []string{"request", "response"},
	}
}

// String reads a string field at the given key path, returning "" when it
// is absent or not a string.
func (e Entry) String(keys ...string) string {
	s, err := jsonparser.GetString(e, keys...)
	if err != nil {
		return ""
	}
	return s
}

// PageRef returns the entry's pageref, or "" if it has none.
func (e Entry) PageRef() string { return e.String("pageref") }

// StartedDateTime returns the entry's start timestamp.
func (e Entry) StartedDateTime() string { return e.String("startedDateTime") }

// Method returns request.method.
func (e Entry) Method() string { return e.String("request", "method") }

// URL returns request.url and whether it was present as a string.
func (e Entry) URL() (string, bool) {
	s, err := jsonparser.GetString(e, "request", "url")
	return s, err == nil
}

// Status returns response.status, or 0 when absent.
func (e Entry) Status() int {
	n, err := jsonparser.GetInt(e, "response", "status")
	if err != nil {
		return 0
	}
	return int(n)
}
