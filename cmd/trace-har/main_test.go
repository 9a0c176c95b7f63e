package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/trace-har/internal/config"
	"github.com/usestring/trace-har/internal/output"
	"github.com/usestring/trace-har/internal/testutil"
	"github.com/usestring/trace-har/pkg/converter"
	"github.com/usestring/trace-har/pkg/har"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	a := newApp(&config.Config{
		BodyCacheMaxItems:   8,
		BatchWorkers:        2,
		SummaryLimitDefault: 10,
		LogLevel:            "error",
		LogFormat:           "text",
	})
	t.Cleanup(a.close)

	root := a.rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func readHAR(t *testing.T, path string) har.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc har.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestRoot_Version(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, converter.Version+"\n", out)
}

func TestBuild(t *testing.T) {
	trace := testutil.WriteZip(t, testutil.SampleTrace(t))
	harPath := filepath.Join(t.TempDir(), "out.har")

	out, err := run(t, "build", trace, "-o", harPath, "--validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 entries across 1 pages to "+harPath)

	doc := readHAR(t, harPath)
	assert.Len(t, doc.Log.Entries, 2)
	assert.Equal(t, "chromium", doc.Log.Browser.Name)

	_, err = run(t, "build", trace, "-o", harPath)
	assert.ErrorIs(t, err, output.ErrOutputExists)

	out, err = run(t, "build", trace, "-o", harPath, "--overwrite", "--pretty", "--filter", `.response.content.mimeType == "image/png"`)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 entries across 1 pages")

	data, err := os.ReadFile(harPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"log\"")
}

func TestBuild_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"no args", []string{"build"}},
		{"missing trace", []string{"build", filepath.Join(dir, "nope.zip"), "-o", filepath.Join(dir, "a.har")}},
		{"not a trace", []string{"build", writeFile(t, dir, "notes.txt", "hi"), "-o", filepath.Join(dir, "b.har")}},
		{"bad filter", []string{"build", testutil.WriteDir(t, testutil.SampleTrace(t)), "-o", filepath.Join(dir, "c.har"), "--filter", ".["}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}

	// Failed conversions leave no output behind.
	assert.NoFileExists(t, filepath.Join(dir, "b.har"))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBatch(t *testing.T) {
	a := testutil.WriteDir(t, testutil.SampleTrace(t))
	b := testutil.WriteZip(t, testutil.SampleTrace(t))
	renamed := filepath.Join(filepath.Dir(b), "second.zip")
	require.NoError(t, os.Rename(b, renamed))
	outDir := filepath.Join(t.TempDir(), "hars")

	out, err := run(t, "batch", a, renamed, "--out-dir", outDir, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 4 entries from 2 traces")

	assert.Len(t, readHAR(t, filepath.Join(outDir, "trace.har")).Log.Entries, 2)
	assert.Len(t, readHAR(t, filepath.Join(outDir, "second.har")).Log.Entries, 2)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.har")
	_, err := run(t, "build", testutil.WriteDir(t, testutil.SampleTrace(t)), "-o", good)
	require.NoError(t, err)
	bad := writeFile(t, dir, "bad.har", `{"log":{"version":"1.2"}}`)

	out, err := run(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	out, err = run(t, "validate", good, bad)
	assert.ErrorContains(t, err, "1 of 2 files failed validation")
	assert.Contains(t, out, "FAIL")
	assert.ErrorIs(t, validateFile(bad), errInvalidHAR)
}
