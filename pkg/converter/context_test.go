package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/trace-har/internal/testutil"
	"github.com/usestring/trace-har/pkg/tracesource"
)

func TestLoadContextOptions(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  ContextOptions
	}{
		{
			name:  "first record wins",
			lines: []string{`{"type":"context-options","browserName":"webkit","playwrightVersion":"1.40.0"}`, `{"type":"context-options","browserName":"firefox"}`},
			want:  ContextOptions{Type: "context-options", BrowserName: "webkit", PlaywrightVersion: "1.40.0"},
		},
		{
			name:  "garbage lines skipped",
			lines: []string{`not json`, `[]`, `42`, `{"type":"before"}`, `{"type":"context-options","browserName":"chromium"}`},
			want:  ContextOptions{Type: "context-options", BrowserName: "chromium"},
		},
		{
			name: "non-string fields do not skip the record",
			lines: []string{
				`{"type":"context-options","browserName":"chromium","playwrightVersion":1.45}`,
				`{"type":"context-options","browserName":"firefox","playwrightVersion":"1.0"}`,
			},
			want: ContextOptions{Type: "context-options", BrowserName: "chromium", PlaywrightVersion: "1.45"},
		},
		{
			name:  "object and null fields read as absent",
			lines: []string{`{"type":"context-options","browserName":{"n":"x"},"playwrightVersion":null}`},
			want:  ContextOptions{Type: "context-options"},
		},
		{
			name:  "nested type does not match",
			lines: []string{`{"data":{"type":"context-options"}}`, `{"type":"context-options","browserName":"webkit"}`},
			want:  ContextOptions{Type: "context-options", BrowserName: "webkit"},
		},
		{
			name:  "escaped string value",
			lines: []string{`{"type":"context-options","browserName":"chrom\u0069um"}`},
			want:  ContextOptions{Type: "context-options", BrowserName: "chromium"},
		},
		{
			name:  "no record",
			lines: []string{`{"type":"before"}`, `{"type":"after"}`},
			want:  ContextOptions{},
		},
		{
			name:  "empty log",
			lines: nil,
			want:  ContextOptions{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := tracesource.Open(testutil.WriteDir(t, testutil.Members{"trace.trace": testutil.NDJSON(tt.lines...)}))
			require.NoError(t, err)
			defer src.Close()

			assert.Equal(t, tt.want, LoadContextOptions(src))
		})
	}
}

func TestLoadContextOptions_MissingMember(t *testing.T) {
	src, err := tracesource.Open(testutil.WriteDir(t, testutil.Members{}))
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, ContextOptions{}, LoadContextOptions(src))
}

func TestBrowserOf(t *testing.T) {
	assert.Equal(t, "unknown", browserOf(ContextOptions{}).Name)
	assert.Equal(t, "", browserOf(ContextOptions{}).Version)
	assert.Equal(t, "chromium", browserOf(ContextOptions{BrowserName: "chromium"}).Name)
	assert.Equal(t, "1.2.3", browserOf(ContextOptions{PlaywrightVersion: "1.2.3"}).Version)
}
