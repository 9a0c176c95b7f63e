package tools

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/trace-har/internal/config"
	"github.com/usestring/trace-har/internal/harschema"
	"github.com/usestring/trace-har/internal/output"
	"github.com/usestring/trace-har/internal/testutil"
	"github.com/usestring/trace-har/pkg/har"
	"github.com/usestring/trace-har/pkg/tracesource"
)

func testDeps() *Deps {
	return &Deps{Config: &config.Config{
		BodyCacheMaxItems:   16,
		BatchWorkers:        2,
		SummaryLimitDefault: 1,
	}}
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	return coded.Code
}

func TestToolTraceToHAR(t *testing.T) {
	tool := ToolTraceToHAR(testDeps())
	trace := testutil.WriteZip(t, testutil.SampleTrace(t))

	_, out, err := tool(context.Background(), nil, TraceToHARInput{TracePath: trace})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(trace), "trace.har"), out.OutputPath)
	assert.Equal(t, 2, out.Entries)
	assert.Equal(t, 1, out.Pages)
	assert.Equal(t, har.Browser{Name: "chromium", Version: "1.45.0"}, out.Browser)

	data, err := os.ReadFile(out.OutputPath)
	require.NoError(t, err)
	v, err := harschema.Default()
	require.NoError(t, err)
	assert.True(t, v.Validate(data).Valid)

	_, _, err = tool(context.Background(), nil, TraceToHARInput{TracePath: trace})
	assert.Equal(t, ErrCodeOutputExists, codeOf(t, err))

	_, out, err = tool(context.Background(), nil, TraceToHARInput{TracePath: trace, Overwrite: true, Filter: `.request.method == "POST"`})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Entries)
}

func TestToolTraceToHAR_Errors(t *testing.T) {
	badNetwork := testutil.SampleTrace(t)
	badNetwork["trace.network"] = testutil.NDJSON(`[1,2]`)

	noBlobs := testutil.Members{
		"trace.network": testutil.SampleTrace(t)["trace.network"],
	}

	tests := []struct {
		name  string
		input func(t *testing.T) TraceToHARInput
		code  string
	}{
		{
			name:  "missing trace path",
			input: func(t *testing.T) TraceToHARInput { return TraceToHARInput{} },
			code:  ErrCodeInvalidInput,
		},
		{
			name: "bad filter",
			input: func(t *testing.T) TraceToHARInput {
				return TraceToHARInput{TracePath: testutil.WriteDir(t, testutil.SampleTrace(t)), Filter: ".["}
			},
			code: ErrCodeInvalidInput,
		},
		{
			name: "not a trace",
			input: func(t *testing.T) TraceToHARInput {
				return TraceToHARInput{TracePath: filepath.Join(t.TempDir(), "nope.txt")}
			},
			code: ErrCodeUnsupportedFormat,
		},
		{
			name: "malformed record",
			input: func(t *testing.T) TraceToHARInput {
				return TraceToHARInput{TracePath: testutil.WriteDir(t, badNetwork)}
			},
			code: ErrCodeMalformedRecord,
		},
		{
			name: "missing blob",
			input: func(t *testing.T) TraceToHARInput {
				return TraceToHARInput{TracePath: testutil.WriteZip(t, noBlobs)}
			},
			code: ErrCodeMissingMember,
		},
	}

	tool := ToolTraceToHAR(testDeps())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tool(context.Background(), nil, tt.input(t))
			assert.Equal(t, tt.code, codeOf(t, err))
		})
	}
}

func TestToolTraceSummary(t *testing.T) {
	tool := ToolTraceSummary(testDeps())
	trace := testutil.WriteDir(t, testutil.SampleTrace(t))

	// SummaryLimitDefault is 1
	_, out, err := tool(context.Background(), nil, TraceSummaryInput{TracePath: trace})
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalEntries)
	assert.True(t, out.Truncated)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, EntrySummary{
		Index:    0,
		PageRef:  "page@1",
		Method:   "POST",
		URL:      "https://example.com/api",
		Status:   200,
		MimeType: "application/json",
	}, out.Entries[0])
	assert.Equal(t, []PageSummary{{ID: "page@1", Title: "https://example.com/api", Started: "2024-05-01T10:00:00.000Z"}}, out.Pages)

	_, out, err = tool(context.Background(), nil, TraceSummaryInput{TracePath: trace, Limit: 10})
	require.NoError(t, err)
	assert.False(t, out.Truncated)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, "base64", out.Entries[1].BodyEncoding)

	_, out, err = tool(context.Background(), nil, TraceSummaryInput{TracePath: trace, Filter: `.request.url | endswith(".png")`, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalEntries)
	assert.Equal(t, "GET", out.Entries[0].Method)

	_, _, err = tool(context.Background(), nil, TraceSummaryInput{TracePath: trace, Limit: -1})
	assert.Equal(t, ErrCodeInvalidInput, codeOf(t, err))
}

func TestToolHARValidate(t *testing.T) {
	tool := ToolHARValidate(testDeps())
	dir := t.TempDir()

	good := filepath.Join(dir, "good.har")
	require.NoError(t, os.WriteFile(good, []byte(`{"log":{"version":"1.2","creator":{"name":"x","version":"1"},"pages":[],"entries":[],"browser":{"name":"b","version":""}}}`), 0o644))
	bad := filepath.Join(dir, "bad.har")
	require.NoError(t, os.WriteFile(bad, []byte(`{"log":{}}`), 0o644))

	_, out, err := tool(context.Background(), nil, HARValidateInput{HARPath: good})
	require.NoError(t, err)
	assert.True(t, out.Valid)
	assert.Empty(t, out.Errors)

	_, out, err = tool(context.Background(), nil, HARValidateInput{HARPath: bad})
	require.NoError(t, err)
	assert.False(t, out.Valid)
	assert.NotEmpty(t, out.Errors)

	_, _, err = tool(context.Background(), nil, HARValidateInput{HARPath: filepath.Join(dir, "missing.har")})
	assert.Equal(t, ErrCodeInvalidInput, codeOf(t, err))
}

func TestWrapConvertError_PassesCodedThrough(t *testing.T) {
	orig := ErrInvalidInput("x")
	assert.Same(t, orig, WrapConvertError(orig))
	assert.Nil(t, WrapConvertError(nil))
}

func TestWrapConvertError_Codes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantMsg  string
	}{
		{
			name:     "missing member",
			err:      fmt.Errorf("convert: %w", &tracesource.MemberError{Member: "trace.network", Err: tracesource.ErrMissingMember}),
			wantCode: ErrCodeMissingMember,
			wantMsg:  "trace member trace.network not found",
		},
		{
			name:     "member not utf-8",
			err:      &tracesource.MemberError{Member: "trace.network", Err: tracesource.ErrInvalidText},
			wantCode: ErrCodeInternal,
			wantMsg:  "reading trace member trace.network failed",
		},
		{
			name:     "member checksum failure",
			err:      &tracesource.MemberError{Member: "resources/abc", Err: zip.ErrChecksum},
			wantCode: ErrCodeInternal,
			wantMsg:  "reading trace member resources/abc failed",
		},
		{
			name:     "unsupported format",
			err:      tracesource.ErrUnsupportedFormat,
			wantCode: ErrCodeUnsupportedFormat,
		},
		{
			name:     "output exists",
			err:      fmt.Errorf("%w: out.har", output.ErrOutputExists),
			wantCode: ErrCodeOutputExists,
		},
		{
			name:     "unknown",
			err:      errors.New("boom"),
			wantCode: ErrCodeInternal,
			wantMsg:  "conversion failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapConvertError(tt.err)
			var coded *CodedError
			require.ErrorAs(t, err, &coded)
			assert.Equal(t, tt.wantCode, coded.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, coded.Message)
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
