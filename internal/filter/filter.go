// Package filter selects HAR entries with a jq expression.
package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/usestring/trace-har/pkg/har"
)

// Filter keeps entries for which a compiled jq expression yields a truthy
// value (anything other than null or false).
type Filter struct {
	expression string
	code       *gojq.Code
}

// Compile parses and compiles a jq expression.
func Compile(expression string) (*Filter, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}

	return &Filter{expression: expression, code: code}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expression
}

// Match reports whether the entry satisfies the expression. Only the first
// value the expression produces is considered.
func (f *Filter) Match(entry har.Entry) (bool, error) {
	var input any
	if err := json.Unmarshal(entry, &input); err != nil {
		return false, fmt.Errorf("invalid entry JSON: %w", err)
	}

	iter := f.code.Run(input)
	v, ok := iter.Next()
	if !ok {
		return false, nil
	}
	if err, isErr := v.(error); isErr {
		return false, errors.New(formatJQError(err))
	}
	return truthy(v), nil
}

// Apply returns the entries that match, preserving order. The first
// evaluation error aborts with the offending entry's index.
func (f *Filter) Apply(entries []har.Entry) ([]har.Entry, error) {
	kept := make([]har.Entry, 0, len(entries))
	for i, entry := range entries {
		ok, err := f.Match(entry)
		if err != nil {
			return nil, fmt.Errorf("entry[%d]: %w", i, err)
		}
		if ok {
			kept = append(kept, entry)
		}
	}
	return kept, nil
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	default:
		return true
	}
}

// formatJQError creates a helpful error message for jq execution errors.
//
// Runtime jq errors (like "cannot iterate over: null") are plain errors
// without typed wrappers in gojq, so hints are chosen by string matching.
func formatJQError(err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return "query halted"
		}
		return fmt.Sprintf("query halted with: %v", haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this entry)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "cannot be matched, as it is not a string"):
		hint = " (the field may be missing; try `// \"\"`)"
	}

	return errStr + hint
}
