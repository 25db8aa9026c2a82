package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleFindCode serves a workflow for locating code that serves a goal.
func HandleFindCode(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		goal := req.Params.Arguments["goal"]
		path := req.Params.Arguments["path"]
		if path == "" {
			path = "."
		}

		var sb strings.Builder

		sb.WriteString("# Find Code\n\n")
		if goal != "" {
			fmt.Fprintf(&sb, "**Goal**: %s\n", goal)
		} else {
			sb.WriteString("**Goal**: not given. Ask the user what they are looking for before searching.\n")
		}
		fmt.Fprintf(&sb, "**Search root**: `%s`\n\n", path)

		sb.WriteString("## Workflow\n\n")
		sb.WriteString("### Step 1: Size the tree\n")
		fmt.Fprintf(&sb, "`count(path: %q, type: \"file\")` tells you whether a broad listing is affordable.\n\n", path)

		sb.WriteString("### Step 2: Find candidate files by name\n")
		fmt.Fprintf(&sb, "`search_files(pattern: \"<name fragment>\", path: %q)`\n", path)
		sb.WriteString("- Prefer `extension` over encoding the suffix in the regex.\n")
		sb.WriteString("- If `truncated` is true, tighten the pattern before reading results.\n\n")

		sb.WriteString("### Step 3: Confirm by content\n")
		fmt.Fprintf(&sb, "`search_content(search_pattern: \"<identifier>\", path: %q, context_lines: 2)`\n", path)
		sb.WriteString("- Search for definitions first (`func Name`, `class Name`, `def name`), then call sites.\n")
		sb.WriteString("- Use `type` with a ripgrep type name to skip vendored or generated languages.\n\n")

		sb.WriteString("### Step 4: Check recent activity\n")
		fmt.Fprintf(&sb, "`recent_files(path: %q, hours: %v)` shows what was touched recently, which is often where the work is.\n\n", path, cfg.DefaultRecentHours)

		sb.WriteString("### Step 5: Report\n")
		sb.WriteString("List each relevant file as `path:line` with one sentence on its role. Say which searches came back empty.\n")

		return &sdkmcp.GetPromptResult{
			Description: "Workflow for locating code in the workspace",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
