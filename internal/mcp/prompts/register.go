package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Tool usage guide
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "tool_guide",
		Description: "RECOMMENDED: Which fd-mcp tool to use for which goal, with parameter rules and error codes. Start here.",
	}, HandleToolGuide(cfg))

	// Prompt 2: Find code workflow
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "find_code",
		Description: "Step-by-step workflow for locating the code that implements something, moving from file names to content.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "goal",
				Description: "What you are looking for (e.g., 'where HTTP retries are configured')",
				Required:    false,
			},
			{
				Name:        "path",
				Description: "Directory to search, relative to the workspace root",
				Required:    false,
			},
		},
	}, HandleFindCode(cfg))
}
