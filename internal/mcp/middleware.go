package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// LoggingMiddleware returns middleware that logs all incoming method calls.
// Tool calls also log the tool name, and tool-level failures are logged at
// warn level. A nil logger means slog.Default().
func LoggingMiddleware(logger *slog.Logger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			l := logger
			if l == nil {
				l = slog.Default()
			}
			start := time.Now()

			result, err := next(ctx, method, req)

			attrs := []slog.Attr{
				slog.String("method", method),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if call, ok := req.(*sdkmcp.CallToolRequest); ok && call.Params != nil {
				attrs = append(attrs, slog.String("tool", call.Params.Name))
			}

			switch res, _ := result.(*sdkmcp.CallToolResult); {
			case err != nil:
				attrs = append(attrs, slog.String("error", err.Error()))
				l.LogAttrs(ctx, slog.LevelError, "method call failed", attrs...)
			case res != nil && res.IsError:
				l.LogAttrs(ctx, slog.LevelWarn, "tool call returned error", attrs...)
			default:
				l.LogAttrs(ctx, slog.LevelInfo, "method call completed", attrs...)
			}

			return result, err
		}
	}
}
