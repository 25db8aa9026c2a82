package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: search_files
	AddTool(srv, &sdkmcp.Tool{
		Name:        "search_files",
		Description: "Find files and directories by name using fd. The pattern is a regex on the file name; use extension/type to filter instead of encoding them in the regex. Respects .gitignore unless no_ignore=true. Results are capped by max_results and flagged truncated when more exist.",
		Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
	}, ToolSearchFiles(d))

	// Tool 2: search_content
	AddTool(srv, &sdkmcp.Tool{
		Name:        "search_content",
		Description: "Search inside files with ripgrep. Returns path, line number and matched line, plus context_lines of surrounding text. Restrict files with file_pattern (glob), extension, or type (ripgrep type name such as go or py).",
		Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
	}, ToolSearchContent(d))

	// Tool 3: exec
	AddTool(srv, &sdkmcp.Tool{
		Name:        "exec",
		Description: "Run a shell command on every file fd finds. The command must contain {}, which is replaced with each file's shell-quoted path. Write it bare, as in 'wc -l {}'; \"{}\" and '{}' also work, but do not put {} inside a longer quoted string. The command itself runs through sh unmodified; only use commands you would run yourself. One failing file does not stop the batch.",
		Annotations: &sdkmcp.ToolAnnotations{DestructiveHint: boolPtr(true)},
	}, ToolExec(d))

	// Tool 4: recent_files
	AddTool(srv, &sdkmcp.Tool{
		Name:        "recent_files",
		Description: "List files modified within the last N hours (default 24) using fd. Useful to see what changed recently.",
		Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
	}, ToolRecentFiles(d))

	// Tool 5: count
	AddTool(srv, &sdkmcp.Tool{
		Name:        "count",
		Description: "Count files and directories matching a pattern using fd, without listing them.",
		Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
	}, ToolCount(d))
}

func boolPtr(b bool) *bool {
	return &b
}
