// Package prompts contains MCP prompt implementations for fd-mcp.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	Root               string
	DefaultSearchLimit int
	DefaultRecentHours float64
	MaxContextLines    int
}
