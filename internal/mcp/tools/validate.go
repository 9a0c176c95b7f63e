package tools

import (
	"context"
	"errors"
	"fmt"
	"os"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/trace-har/internal/harschema"
)

// HARValidateInput is the input for har_validate.
type HARValidateInput struct {
	HARPath string `json:"har_path" jsonschema:"Path to a HAR file"`
}

// HARValidateOutput is the output for har_validate.
type HARValidateOutput struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitzero"`
}

// ToolHARValidate validates a HAR file on disk.
func ToolHARValidate(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input HARValidateInput) (*sdkmcp.CallToolResult, HARValidateOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input HARValidateInput) (*sdkmcp.CallToolResult, HARValidateOutput, error) {
		if input.HARPath == "" {
			return nil, HARValidateOutput{}, ErrInvalidInput("har_path is required")
		}

		data, err := os.ReadFile(input.HARPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, HARValidateOutput{}, ErrInvalidInput(fmt.Sprintf("file not found: %s", input.HARPath))
			}
			return nil, HARValidateOutput{}, WrapConvertError(err)
		}

		v := d.Validator
		if v == nil {
			if v, err = harschema.Default(); err != nil {
				return nil, HARValidateOutput{}, WrapConvertError(err)
			}
		}

		result := v.Validate(data)
		return nil, HARValidateOutput{Valid: result.Valid, Errors: result.Errors}, nil
	}
}
