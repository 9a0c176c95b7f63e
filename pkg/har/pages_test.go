package har

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPages_DedupAndOrder(t *testing.T) {
	entries := []Entry{
		Entry(`{"pageref":"A","startedDateTime":"t1","request":{"url":"https://a.test/first"}}`),
		Entry(`{"pageref":"B","startedDateTime":"t2","request":{"url":"https://b.test/"}}`),
		Entry(`{"pageref":"A","startedDateTime":"t3","request":{"url":"https://a.test/second"}}`),
		Entry(`{"pageref":"C","startedDateTime":"t4","request":{"url":"https://c.test/"}}`),
	}

	pages := BuildPages(entries)
	require.Len(t, pages, 3)

	assert.Equal(t, []string{"A", "B", "C"}, []string{pages[0].ID, pages[1].ID, pages[2].ID})
	assert.Equal(t, "https://a.test/first", pages[0].Title)
	assert.Equal(t, "t1", pages[0].StartedDateTime)
	for _, p := range pages {
		assert.Equal(t, PageTimings{OnContentLoad: -1, OnLoad: -1}, p.PageTimings)
	}
}

func TestBuildPages_SkipsAndFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		entry     Entry
		wantPages int
		wantTitle string
	}{
		{"no pageref", Entry(`{"request":{"url":"https://x.test/"}}`), 0, ""},
		{"empty pageref", Entry(`{"pageref":"","request":{"url":"https://x.test/"}}`), 0, ""},
		{"non-string pageref", Entry(`{"pageref":7,"request":{"url":"https://x.test/"}}`), 0, ""},
		{"missing url uses pageref", Entry(`{"pageref":"page@9","request":{}}`), 1, "page@9"},
		{"missing request uses pageref", Entry(`{"pageref":"page@9"}`), 1, "page@9"},
		{"empty url is kept", Entry(`{"pageref":"page@9","request":{"url":""}}`), 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := BuildPages([]Entry{tt.entry})
			require.Len(t, pages, tt.wantPages)
			if tt.wantPages > 0 {
				assert.Equal(t, tt.wantTitle, pages[0].Title)
			}
		})
	}
}

func TestBuildPages_EmptyIsNotNil(t *testing.T) {
	pages := BuildPages(nil)
	assert.NotNil(t, pages)
	assert.Empty(t, pages)
}

func TestDocument_Marshal(t *testing.T) {
	doc := New("0.0.1", Browser{Name: "chromium", Version: "1.45.0"})

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"log":{
		"version":"1.2",
		"creator":{"name":"trace-har","version":"0.0.1"},
		"pages":[],
		"entries":[],
		"browser":{"name":"chromium","version":"1.45.0"}
	}}`, string(data))
}

func TestEntry_MarshalVerbatim(t *testing.T) {
	raw := `{"z":1,"a":{"y":2,"b":3}}`
	doc := New("dev", Browser{Name: "unknown"})
	doc.Log.Entries = append(doc.Log.Entries, Entry(raw))

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"entries":[`+raw+`]`)

	var back Document
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back.Log.Entries, 1)
	assert.Equal(t, raw, string(back.Log.Entries[0]))
}

func TestEntry_Accessors(t *testing.T) {
	e := Entry(`{"pageref":"p","startedDateTime":"t","request":{"method":"GET","url":"https://x.test/"},"response":{"status":404}}`)

	assert.Equal(t, "p", e.PageRef())
	assert.Equal(t, "t", e.StartedDateTime())
	assert.Equal(t, "GET", e.Method())
	assert.Equal(t, 404, e.Status())

	url, ok := e.URL()
	assert.True(t, ok)
	assert.Equal(t, "https://x.test/", url)

	assert.Equal(t, 0, Entry(`{}`).Status())
}
