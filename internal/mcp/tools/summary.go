package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/trace-har/internal/config"
	"github.com/usestring/trace-har/pkg/har"
)

// TraceSummaryInput is the input for trace_summary.
type TraceSummaryInput struct {
	TracePath string `json:"trace_path" jsonschema:"Path to a trace directory or .zip archive"`
	Filter    string `json:"filter,omitempty" jsonschema:"jq expression applied to each HAR entry"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Max entries to list (default from SUMMARY_LIMIT_DEFAULT)"`
}

// TraceSummaryOutput is the output for trace_summary.
type TraceSummaryOutput struct {
	Browser      har.Browser    `json:"browser"`
	Pages        []PageSummary  `json:"pages,omitzero"`
	Entries      []EntrySummary `json:"entries,omitzero"`
	TotalEntries int            `json:"total_entries"`
	Truncated    bool           `json:"truncated,omitempty"`
}

// PageSummary is one page of the converted HAR.
type PageSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Started string `json:"started,omitempty"`
}

// EntrySummary is a one-line view of a HAR entry.
type EntrySummary struct {
	Index        int    `json:"index"`
	PageRef      string `json:"pageref,omitempty"`
	Method       string `json:"method,omitempty"`
	URL          string `json:"url,omitempty"`
	Status       int    `json:"status,omitempty"`
	MimeType     string `json:"mime_type,omitempty"`
	BodyEncoding string `json:"body_encoding,omitempty"`
}

// ToolTraceSummary converts a trace in memory and summarizes it.
func ToolTraceSummary(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input TraceSummaryInput) (*sdkmcp.CallToolResult, TraceSummaryOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input TraceSummaryInput) (*sdkmcp.CallToolResult, TraceSummaryOutput, error) {
		if input.TracePath == "" {
			return nil, TraceSummaryOutput{}, ErrInvalidInput("trace_path is required")
		}
		if input.Limit < 0 {
			return nil, TraceSummaryOutput{}, ErrInvalidInput("limit must not be negative")
		}
		limit := input.Limit
		if limit == 0 {
			limit = d.Config.SummaryLimitDefault
		}
		if limit <= 0 {
			limit = config.DefaultSummaryLimit
		}

		conv, err := d.Converter(input.Filter)
		if err != nil {
			return nil, TraceSummaryOutput{}, err
		}

		doc, err := conv.Convert(input.TracePath)
		if err != nil {
			return nil, TraceSummaryOutput{}, WrapConvertError(err)
		}

		return nil, summarize(doc, limit), nil
	}
}

func summarize(doc *har.Document, limit int) TraceSummaryOutput {
	out := TraceSummaryOutput{
		Browser:      doc.Log.Browser,
		TotalEntries: len(doc.Log.Entries),
	}

	for _, p := range doc.Log.Pages {
		out.Pages = append(out.Pages, PageSummary{ID: p.ID, Title: p.Title, Started: p.StartedDateTime})
	}

	for i, e := range doc.Log.Entries {
		if i >= limit {
			out.Truncated = true
			break
		}
		url, _ := e.URL()
		out.Entries = append(out.Entries, EntrySummary{
			Index:        i,
			PageRef:      e.PageRef(),
			Method:       e.Method(),
			URL:          url,
			Status:       e.Status(),
			MimeType:     e.String("response", "content", "mimeType"),
			BodyEncoding: e.String("response", "content", "encoding"),
		})
	}
	return out
}
