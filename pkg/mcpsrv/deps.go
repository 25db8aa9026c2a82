package mcpsrv

import (
	"github.com/usestring/fd-mcp/internal/config"
	"github.com/usestring/fd-mcp/internal/history"
	"github.com/usestring/fd-mcp/internal/locate"
	"github.com/usestring/fd-mcp/internal/search"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Config  *config.Config
	Engine  *search.Engine
	Locator *locate.Locator
	History *history.Log
}
