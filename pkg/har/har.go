// Package har defines the HAR 1.2 document produced from a trace.
package har

// Version is the HAR format version written to log.version.
const Version = "1.2"

// CreatorName is written to log.creator.name.
const CreatorName = "trace-har"

// Document is the top-level HAR value.
type Document struct {
	Log Log `json:"log"`
}

// Log is the HAR log object. Pages and Entries are never nil so they
// serialize as [] rather than null.
type Log struct {
	Version string  `json:"version"`
	Creator Creator `json:"creator"`
	Pages   []Page  `json:"pages"`
	Entries []Entry `json:"entries"`
	Browser Browser `json:"browser"`
}

// Creator identifies the tool that wrote the HAR.
type Creator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Browser identifies the browser the trace was recorded with.
type Browser struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Page groups the entries that share a pageref.
type Page struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	StartedDateTime string      `json:"startedDateTime"`
	PageTimings     PageTimings `json:"pageTimings"`
}

// PageTimings are not recorded in traces; both fields are always -1.
type PageTimings struct {
	OnContentLoad float64 `json:"onContentLoad"`
	OnLoad        float64 `json:"onLoad"`
}

// UnknownTimings is the placeholder used for every page.
var UnknownTimings = PageTimings{OnContentLoad: -1, OnLoad: -1}

// New returns an empty document stamped with the given creator version.
func New(creatorVersion string, browser Browser) *Document {
	return &Document{Log: Log{
		Version: Version,
		Creator: Creator{Name: CreatorName, Version: creatorVersion},
		Pages:   []Page{},
		Entries: []Entry{},
		Browser: browser,
	}}
}
