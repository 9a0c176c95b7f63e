// Package testutil builds Playwright trace fixtures for tests.
package testutil

import (
	"archive/zip"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Members maps trace member names ("trace.network", "resources/<sha1>") to contents.
type Members map[string][]byte

// PNGBytes is a truncated PNG header used as a binary body.
var PNGBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x00")

// SHA1Hex returns the content address used for resources/<sha1>.
func SHA1Hex(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Resource stores data under its content address and returns the sha1.
func (m Members) Resource(data []byte) string {
	sha := SHA1Hex(data)
	m["resources/"+sha] = data
	return sha
}

// NDJSON joins raw JSON lines with trailing newlines.
func NDJSON(lines ...string) []byte {
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

// Record marshals v into a single JSON line.
func Record(t testing.TB, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	return string(b)
}

// WriteDir materializes members under a fresh temp directory and returns it.
func WriteDir(t testing.TB, m Members) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "trace")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", root, err)
	}
	for _, name := range m.names() {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", p, err)
		}
		if err := os.WriteFile(p, m[name], 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	return root
}

// WriteZip stores members in a fresh trace.zip and returns its path.
func WriteZip(t testing.TB, m Members) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "trace.zip")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create %s: %v", p, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range m.names() {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write(m[name]); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return p
}

func (m Members) names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SampleTrace is a chromium trace with two resource snapshots on page@1:
// a JSON POST with a JSON response, then a PNG image.
func SampleTrace(t testing.TB) Members {
	t.Helper()
	m := Members{}
	reqSha := m.Resource([]byte(`{"hello":"world"}`))
	respSha := m.Resource([]byte(`{"ok":true}`))
	pngSha := m.Resource(PNGBytes)

	m["trace.trace"] = NDJSON(
		`{"version":6,"type":"context-options","browserName":"chromium","playwrightVersion":"1.45.0","platform":"linux"}`,
		`{"type":"before","callId":"call@1","apiName":"page.goto"}`,
	)
	m["trace.network"] = NDJSON(
		`{"type":"resource-snapshot","snapshot":{"pageref":"page@1","startedDateTime":"2024-05-01T10:00:00.000Z","time":12.5,`+
			`"request":{"method":"POST","url":"https://example.com/api","httpVersion":"HTTP/1.1","headers":[],"queryString":[],"cookies":[],`+
			`"postData":{"mimeType":"application/json; charset=utf-8","_sha1":"`+reqSha+`"},"headersSize":-1,"bodySize":17},`+
			`"response":{"status":200,"statusText":"OK","httpVersion":"HTTP/1.1","headers":[],"cookies":[],`+
			`"content":{"size":11,"mimeType":"application/json","_sha1":"`+respSha+`"},"redirectURL":"","headersSize":-1,"bodySize":11},`+
			`"cache":{},"timings":{"send":0,"wait":10,"receive":2.5}}}`,
		`{"type":"resource-snapshot","snapshot":{"pageref":"page@1","startedDateTime":"2024-05-01T10:00:01.000Z","time":3,`+
			`"request":{"method":"GET","url":"https://example.com/logo.png","httpVersion":"HTTP/1.1","headers":[],"queryString":[],"cookies":[],"headersSize":-1,"bodySize":0},`+
			`"response":{"status":200,"statusText":"OK","httpVersion":"HTTP/1.1","headers":[],"cookies":[],`+
			`"content":{"size":12,"mimeType":"image/png","_sha1":"`+pngSha+`"},"redirectURL":"","headersSize":-1,"bodySize":12},`+
			`"cache":{},"timings":{"send":0,"wait":2,"receive":1}}}`,
	)
	return m
}
