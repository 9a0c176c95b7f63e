package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/trace-har/pkg/har"
)

func sampleDoc() *har.Document {
	doc := har.New("1.0.0", har.Browser{Name: "chromium", Version: "1.45.0"})
	doc.Log.Entries = append(doc.Log.Entries,
		har.Entry(`{"pageref":"p","request":{"url":"https://x.test/é?q=<a>"},"response":{"content":{"text":"日本 😀"}}}`))
	doc.Log.Pages = har.BuildPages(doc.Log.Entries)
	return doc
}

func TestMarshal_Modes(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"compact", Options{}},
		{"pretty", Options{Pretty: true}},
		{"ascii", Options{ASCII: true}},
		{"pretty ascii", Options{Pretty: true, ASCII: true}},
	}

	want, err := json.Marshal(sampleDoc())
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(sampleDoc(), tt.opts)
			require.NoError(t, err)
			assert.True(t, json.Valid(data))
			assert.JSONEq(t, string(want), string(data))
			assert.True(t, bytes.HasSuffix(data, []byte("\n")))
			assert.Equal(t, tt.opts.Pretty, strings.Contains(string(data), "\n  \"log\""))
		})
	}
}

func TestMarshal_ASCII(t *testing.T) {
	data, err := Marshal(sampleDoc(), Options{ASCII: true})
	require.NoError(t, err)

	for _, b := range data {
		require.Less(t, b, byte(0x80))
	}
	assert.Contains(t, string(data), `é`)
	assert.Contains(t, string(data), `日本`)
	assert.Contains(t, string(data), `😀`)
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	data, err := Marshal(sampleDoc(), Options{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `q=<a>`)
}

func TestWriteFile_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "trace.har")

	require.NoError(t, WriteFile(path, sampleDoc(), Options{}))

	err := WriteFile(path, sampleDoc(), Options{Pretty: true})
	require.ErrorIs(t, err, ErrOutputExists)

	// Refused write leaves the original compact file.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n  ")

	require.NoError(t, WriteFile(path, sampleDoc(), Options{Pretty: true, Overwrite: true}))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  ")
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleDoc(), Options{}))
	assert.True(t, json.Valid(buf.Bytes()))
}
