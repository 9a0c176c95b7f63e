// Package harschema validates HAR documents against the schema of the
// documents this module writes.
package harschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/trace-har/pkg/har"
)

const schemaURL = "har.schema.json"

// Result is the outcome of a validation.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validator validates JSON data against the HAR document schema.
type Validator struct {
	schema *jsonschema.Schema
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
	defaultErr       error
)

// Default returns a shared validator, compiling the schema on first use.
func Default() (*Validator, error) {
	defaultOnce.Do(func() {
		defaultValidator, defaultErr = NewValidator()
	})
	return defaultValidator, defaultErr
}

// Schema reflects the JSON Schema of har.Document. Unknown properties are
// allowed everywhere so HARs written by other tools can still be checked.
func Schema() *invopop.Schema {
	r := &invopop.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	return r.Reflect(&har.Document{})
}

// NewValidator compiles the reflected schema.
func NewValidator() (*Validator, error) {
	schemaJSON, err := json.Marshal(Schema())
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}

	// AddResource needs a decoded JSON value, not raw bytes.
	schemaValue, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, schemaValue); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}

	compiled, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate checks data against the schema and then checks that every
// entry pageref names a page in log.pages.
func (v *Validator) Validate(data []byte) *Result {
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &Result{
			Valid:  false,
			Errors: []string{fmt.Sprintf("invalid JSON: %s", err.Error())},
		}
	}

	if err := v.schema.Validate(value); err != nil {
		return &Result{Valid: false, Errors: extractValidationErrors(err)}
	}

	if errs := checkPageRefs(data); len(errs) > 0 {
		return &Result{Valid: false, Errors: errs}
	}
	return &Result{Valid: true}
}

// checkPageRefs runs on schema-valid input only.
func checkPageRefs(data []byte) []string {
	var doc har.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return []string{err.Error()}
	}

	ids := make(map[string]bool, len(doc.Log.Pages))
	for _, p := range doc.Log.Pages {
		ids[p.ID] = true
	}

	var errs []string
	for i, e := range doc.Log.Entries {
		if ref := e.PageRef(); ref != "" && !ids[ref] {
			errs = append(errs, fmt.Sprintf("/log/entries/%d/pageref: page %q is not listed in log.pages", i, ref))
		}
	}
	return errs
}

// extractValidationErrors extracts human-readable error messages from a validation error.
func extractValidationErrors(err error) []string {
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return extractDetailedErrors(validationErr)
	}
	return []string{err.Error()}
}

// printer is a default English printer for localized error messages.
var printer = message.NewPrinter(language.English)

// extractDetailedErrors flattens the leaf errors of a ValidationError,
// deduplicated and sorted by instance path.
func extractDetailedErrors(err *jsonschema.ValidationError) []string {
	errorsByPath := make(map[string][]string)
	collectErrors(err, errorsByPath)

	paths := make([]string, 0, len(errorsByPath))
	for path := range errorsByPath {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	var result []string
	for _, path := range paths {
		seen := make(map[string]bool)
		for _, msg := range errorsByPath[path] {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				result = append(result, fmt.Sprintf("%s: %s", path, msg))
			} else {
				result = append(result, msg)
			}
		}
	}
	return result
}

// collectErrors recursively collects leaf errors (those without causes).
func collectErrors(err *jsonschema.ValidationError, errorsByPath map[string][]string) {
	instancePath := ""
	if len(err.InstanceLocation) > 0 {
		instancePath = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		errMsg := err.ErrorKind.LocalizedString(printer)
		// $ref wrappers carry no information of their own
		if !strings.HasPrefix(errMsg, "$ref ") && !strings.HasPrefix(errMsg, "doesn't validate with") {
			errorsByPath[instancePath] = append(errorsByPath[instancePath], errMsg)
		}
	}

	for _, cause := range err.Causes {
		collectErrors(cause, errorsByPath)
	}
}
