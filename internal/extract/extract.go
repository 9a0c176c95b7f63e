// Package extract pulls resource snapshots out of a trace's network log and
// hydrates their request/response bodies from the trace's resource blobs.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/usestring/trace-har/internal/cache"
	"github.com/usestring/trace-har/pkg/contenttype"
	"github.com/usestring/trace-har/pkg/har"
	"github.com/usestring/trace-har/pkg/tracesource"
)

const (
	// NetworkMember is the newline-delimited network event log.
	NetworkMember = "trace.network"

	// ResourcesPrefix is prepended to a sha1 to name its blob.
	ResourcesPrefix = "resources/"

	// TypeResourceSnapshot marks network events that carry a HAR entry.
	TypeResourceSnapshot = "resource-snapshot"
)

// ErrMalformedRecord is returned for network log lines that are not JSON
// objects, or resource snapshots without a snapshot object.
var ErrMalformedRecord = errors.New("malformed trace record")

// RecordError locates a malformed record.
type RecordError struct {
	Member string
	Line   int // 1-based
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Member, e.Line, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// bodyPaths are the objects that may reference a blob through _sha1.
var bodyPaths = [][]string{
	{"request", "postData"},
	{"response", "content"},
}

// Extractor turns resource-snapshot events into hydrated HAR entries.
type Extractor struct {
	bodies *cache.BodyCache
	logger *slog.Logger
}

// New creates an Extractor. bodies may be nil to disable memoisation; a nil
// logger uses slog.Default().
func New(bodies *cache.BodyCache, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{bodies: bodies, logger: logger}
}

// Extract returns the trace's entries in log order. A trace without a
// network log has no entries.
func (x *Extractor) Extract(src tracesource.Source) ([]har.Entry, error) {
	entries := make([]har.Entry, 0)
	if !src.Has(NetworkMember) {
		x.logger.Debug("trace has no network log", slog.String("member", NetworkMember))
		return entries, nil
	}

	lineNo := 0
	for line, err := range src.Lines(NetworkMember) {
		if err != nil {
			return nil, err
		}
		lineNo++
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, ok, err := parseRecord([]byte(line))
		if err != nil {
			return nil, &RecordError{Member: NetworkMember, Line: lineNo, Err: err}
		}
		if !ok {
			continue
		}

		for _, path := range bodyPaths {
			entry, err = x.hydrate(src, entry, path)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: hydrating %s: %w", NetworkMember, lineNo, strings.Join(path, "."), err)
			}
		}
		entries = append(entries, entry)
	}

	x.logger.Debug("extracted entries",
		slog.Int("entries", len(entries)),
		slog.Int("lines", lineNo),
	)
	return entries, nil
}

// parseRecord validates one network log line and returns its snapshot when
// the record is a resource snapshot.
func parseRecord(line []byte) (har.Entry, bool, error) {
	if !json.Valid(line) {
		return nil, false, fmt.Errorf("%w: invalid JSON", ErrMalformedRecord)
	}
	if _, dataType, _, _ := jsonparser.Get(line); dataType != jsonparser.Object {
		return nil, false, fmt.Errorf("%w: record is a %s, not an object", ErrMalformedRecord, dataType)
	}

	if typ, _ := jsonparser.GetString(line, "type"); typ != TypeResourceSnapshot {
		return nil, false, nil
	}

	snapshot, dataType, _, err := jsonparser.Get(line, "snapshot")
	if err != nil || dataType != jsonparser.Object {
		return nil, false, fmt.Errorf("%w: %s without a snapshot object", ErrMalformedRecord, TypeResourceSnapshot)
	}

	// Copy out of the line buffer; hydration edits the entry in place.
	return append(har.Entry(nil), snapshot...), true, nil
}

// hydrate replaces the _sha1 reference of the body object at path with the
// blob's text (and encoding, for binary bodies).
func (x *Extractor) hydrate(src tracesource.Source, entry har.Entry, path []string) (har.Entry, error) {
	body, dataType, _, err := jsonparser.Get(entry, path...)
	if err != nil || dataType != jsonparser.Object {
		return entry, nil
	}

	sha1, err := jsonparser.GetString(body, "_sha1")
	if err != nil {
		return entry, nil
	}
	if sha1 == "" {
		return har.Entry(jsonparser.Delete(entry, keyPath(path, "_sha1")...)), nil
	}

	mimeType, _ := jsonparser.GetString(body, "mimeType")
	resolved, err := x.resolve(src, sha1, mimeType)
	if err != nil {
		return nil, err
	}

	out, err := setString(entry, keyPath(path, "text"), resolved.Text)
	if err != nil {
		return nil, err
	}
	if resolved.Encoding != "" {
		out, err = setString(out, keyPath(path, "encoding"), resolved.Encoding)
		if err != nil {
			return nil, err
		}
	}
	return har.Entry(jsonparser.Delete(out, keyPath(path, "_sha1")...)), nil
}

func (x *Extractor) resolve(src tracesource.Source, sha1, mimeType string) (cache.Body, error) {
	if x.bodies != nil {
		if body, ok := x.bodies.Get(sha1, mimeType); ok {
			return body, nil
		}
	}

	data, err := src.ReadBytes(ResourcesPrefix + sha1)
	if err != nil {
		return cache.Body{}, err
	}

	text, encoding := contenttype.Decode(data, mimeType)
	body := cache.Body{Text: text, Encoding: encoding}
	if x.bodies != nil {
		x.bodies.Put(sha1, mimeType, body)
	}
	return body, nil
}

func setString(data []byte, keys []string, value string) ([]byte, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	out, err := jsonparser.Set(data, encoded, keys...)
	if err != nil {
		return nil, fmt.Errorf("setting %s: %w", strings.Join(keys, "."), err)
	}
	return out, nil
}

func keyPath(path []string, key string) []string {
	keys := make([]string, 0, len(path)+1)
	keys = append(keys, path...)
	return append(keys, key)
}
