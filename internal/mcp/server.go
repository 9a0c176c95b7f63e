// Package mcp serves trace conversion over the Model Context Protocol.
package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/trace-har/internal/mcp/tools"
	"github.com/usestring/trace-har/pkg/converter"
)

// ServerName is reported in the MCP initialize handshake.
const ServerName = "trace-har"

// Server wraps the MCP server with trace-har components.
type Server struct {
	mcpServer *sdkmcp.Server
	deps      *tools.Deps

	enableBuiltinTools bool

	// Custom extension registration callbacks
	customRegistrations []func(*sdkmcp.Server)
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithBuiltinTools enables the builtin conversion tools.
func WithBuiltinTools() ServerOption {
	return func(s *Server) {
		s.enableBuiltinTools = true
	}
}

// WithCustomRegistration adds a custom registration callback.
// The callback receives the underlying MCP server and can register
// tools, prompts, or resources directly.
func WithCustomRegistration(fn func(*sdkmcp.Server)) ServerOption {
	return func(s *Server) {
		s.customRegistrations = append(s.customRegistrations, fn)
	}
}

// NewServer creates a new MCP server with the provided dependencies and options.
func NewServer(deps *tools.Deps, opts ...ServerOption) (*Server, error) {
	if deps == nil || deps.Config == nil {
		return nil, fmt.Errorf("deps with config is required")
	}

	s := &Server{deps: deps}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{
			Name:    ServerName,
			Version: converter.Version,
		},
		nil,
	)

	s.mcpServer.AddReceivingMiddleware(LoggingMiddleware(deps.Logger))

	if s.enableBuiltinTools {
		tools.Register(s.mcpServer, deps)
	}

	for _, fn := range s.customRegistrations {
		fn(s.mcpServer)
	}

	return s, nil
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.RunTransport(ctx, &sdkmcp.StdioTransport{})
}

// RunTransport serves on the given transport until ctx is done or the
// client disconnects.
func (s *Server) RunTransport(ctx context.Context, t sdkmcp.Transport) error {
	return s.mcpServer.Run(ctx, t)
}

// MCPServer returns the underlying MCP server for testing.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.mcpServer
}
