// Package mcpsrv provides an extensible MCP server for trace-har.
//
// This package exposes a high-level API for creating and running an MCP server
// with the builtin conversion tools (trace_to_har, trace_summary,
// har_validate). Users can extend the server with custom tools, prompts, and
// resources using functional options.
//
// # Basic Usage
//
// Create a server with default configuration:
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly. WithDepsTool hands the
// builder a Deps whose Converter method honours the server configuration:
//
//	mcpsrv.WithDepsTool(
//	    &mcp.Tool{Name: "count_entries", Description: "Count trace entries"},
//	    func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	        return func(ctx context.Context, req *mcp.CallToolRequest, in CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	            conv, err := d.Converter("")
//	            if err != nil {
//	                return nil, CountOutput{}, err
//	            }
//	            doc, err := conv.Convert(in.TracePath)
//	            if err != nil {
//	                return nil, CountOutput{}, err
//	            }
//	            return nil, CountOutput{Count: len(doc.Log.Entries)}, nil
//	        }
//	    },
//	)
//
// # Configuration
//
// Configuration is read from the environment (see internal/config); options
// override it:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/trace-har.log"),
//	)
package mcpsrv
