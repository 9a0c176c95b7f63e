package mcpsrv

import (
	"github.com/usestring/trace-har/internal/mcp/tools"
)

// Deps contains the dependencies available to custom tools. It is the same
// value the builtin tools use.
type Deps = tools.Deps
