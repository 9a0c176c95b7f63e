package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name:        "trace_to_har",
		Description: "Convert a Playwright trace (directory or .zip) into a HAR 1.2 file. Writes the HAR to output_path (default: next to the trace, named <trace>.har) and returns {output_path, entries, pages, browser}. Refuses to replace an existing file unless overwrite=true. Pass a jq filter (e.g. .response.status >= 400) to keep only matching entries.",
	}, ToolTraceToHAR(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "trace_summary",
		Description: "Summarize the network traffic recorded in a Playwright trace without writing a file. Returns {browser, pages: [{id, title, started}], entries: [{index, pageref, method, url, status, mime_type, body_encoding}], total_entries, truncated}. Use filter (jq) and limit to narrow the listing; use trace_to_har to export.",
	}, ToolTraceSummary(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "har_validate",
		Description: "Validate a HAR file against the HAR document schema and check that every entry pageref names a listed page. Returns {valid, errors}.",
	}, ToolHARValidate(d))
}
