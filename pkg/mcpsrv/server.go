package mcpsrv

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/fd-mcp/internal/config"
	"github.com/usestring/fd-mcp/internal/history"
	"github.com/usestring/fd-mcp/internal/locate"
	"github.com/usestring/fd-mcp/internal/logging"
	"github.com/usestring/fd-mcp/internal/mcp"
	"github.com/usestring/fd-mcp/internal/mcp/tools"
	"github.com/usestring/fd-mcp/internal/runner"
	"github.com/usestring/fd-mcp/internal/search"
)

// Server is the fd-mcp MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with the builtin search tools.
//
// Use functional options to configure the workspace root, logging, custom tools, etc.
func NewServer(opts ...Option) (*Server, error) {
	// Build configuration from options
	cfg := &serverConfig{
		config: config.Load(), // Load defaults from environment
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch cfg.config.ContentFormat {
	case config.ContentFormatText, config.ContentFormatJSON:
	default:
		return nil, fmt.Errorf("unknown content format %q: expected %q or %q",
			cfg.config.ContentFormat, config.ContentFormatText, config.ContentFormatJSON)
	}

	// Setup logging
	logCfg := logging.Config{
		Level:      cfg.config.LogLevel,
		Format:     cfg.config.LogFormat,
		FilePath:   cfg.config.LogFile,
		MaxSizeMB:  cfg.config.LogMaxSizeMB,
		MaxBackups: cfg.config.LogMaxBackups,
		MaxAgeDays: cfg.config.LogMaxAgeDays,
		Compress:   cfg.config.LogCompress,
	}
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	// Create infrastructure
	locator := NewLocator(cfg.config)
	hist, err := history.New(cfg.config.HistorySize)
	if err != nil {
		return nil, fmt.Errorf("failed to create invocation history: %w", err)
	}

	engine := search.New(cfg.config, search.Deps{
		Locator: locator,
		Runner:  runner.New(cfg.config.MaxOutputBytes),
		History: hist,
	})

	// Create deps for internal tools and custom tools
	toolDeps := &tools.Deps{
		Config:  cfg.config,
		Engine:  engine,
		Locator: locator,
		History: hist,
	}

	// Create public deps (same values, different type for public API)
	deps := &Deps{
		Config:  cfg.config,
		Engine:  engine,
		Locator: locator,
		History: hist,
	}

	// Build internal server options
	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}

	// Add custom extension registration callbacks
	for _, fn := range cfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.promptRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.resourceRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}

	// Add deferred tool registrations (tools that need Deps access)
	for _, fn := range cfg.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	// Create internal server
	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// NewLocator builds the binary locator configured by cfg.
// Configured binaries are probed before the default candidates.
func NewLocator(cfg *config.Config) *locate.Locator {
	return locate.New(
		locate.WithPreferred(locate.FileFinder, cfg.FdBinary),
		locate.WithPreferred(locate.ContentSearch, cfg.RgBinary),
	)
}

// Run starts the MCP server with stdio transport.
// The server runs until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the underlying MCP server, for in-process transports and tests.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}
