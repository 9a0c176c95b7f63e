package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/trace-har/internal/mcp/tools"
)

// AddTool is sdkmcp.AddTool with an output check run first. It panics if an
// empty Out would fail the tool's inferred output schema, which happens for
// slice fields without omitzero and for raw JSON such as har.Entry.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
