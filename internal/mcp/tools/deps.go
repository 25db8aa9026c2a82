package tools

import (
	"github.com/usestring/fd-mcp/internal/config"
	"github.com/usestring/fd-mcp/internal/history"
	"github.com/usestring/fd-mcp/internal/locate"
	"github.com/usestring/fd-mcp/internal/search"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config  *config.Config
	Engine  *search.Engine
	Locator *locate.Locator
	History *history.Log
}
