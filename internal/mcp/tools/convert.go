// Package tools contains MCP tool implementations for trace conversion.
package tools

import (
	"context"
	"path/filepath"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/trace-har/internal/batch"
	"github.com/usestring/trace-har/internal/output"
	"github.com/usestring/trace-har/pkg/har"
)

// TraceToHARInput is the input for trace_to_har.
type TraceToHARInput struct {
	TracePath  string `json:"trace_path" jsonschema:"Path to a trace directory or .zip archive"`
	OutputPath string `json:"output_path,omitempty" jsonschema:"Where to write the HAR (default: <trace>.har beside the trace)"`
	Pretty     bool   `json:"pretty,omitempty" jsonschema:"Indent the JSON output"`
	ASCII      bool   `json:"ascii,omitempty" jsonschema:"Escape non-ASCII characters"`
	Overwrite  bool   `json:"overwrite,omitempty" jsonschema:"Replace an existing output file"`
	Filter     string `json:"filter,omitempty" jsonschema:"jq expression; entries for which it is null or false are dropped"`
}

// TraceToHAROutput is the output for trace_to_har.
type TraceToHAROutput struct {
	OutputPath string      `json:"output_path"`
	Entries    int         `json:"entries"`
	Pages      int         `json:"pages"`
	Browser    har.Browser `json:"browser"`
}

// ToolTraceToHAR converts a trace and writes the HAR file.
func ToolTraceToHAR(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input TraceToHARInput) (*sdkmcp.CallToolResult, TraceToHAROutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input TraceToHARInput) (*sdkmcp.CallToolResult, TraceToHAROutput, error) {
		if input.TracePath == "" {
			return nil, TraceToHAROutput{}, ErrInvalidInput("trace_path is required")
		}

		outPath := input.OutputPath
		if outPath == "" {
			outPath = filepath.Join(filepath.Dir(filepath.Clean(input.TracePath)), batch.OutputName(input.TracePath))
		}

		conv, err := d.Converter(input.Filter)
		if err != nil {
			return nil, TraceToHAROutput{}, err
		}

		doc, err := conv.Convert(input.TracePath)
		if err != nil {
			return nil, TraceToHAROutput{}, WrapConvertError(err)
		}

		opts := output.Options{Pretty: input.Pretty, ASCII: input.ASCII, Overwrite: input.Overwrite}
		if err := output.WriteFile(outPath, doc, opts); err != nil {
			return nil, TraceToHAROutput{}, WrapConvertError(err)
		}

		return nil, TraceToHAROutput{
			OutputPath: outPath,
			Entries:    len(doc.Log.Entries),
			Pages:      len(doc.Log.Pages),
			Browser:    doc.Log.Browser,
		}, nil
	}
}
