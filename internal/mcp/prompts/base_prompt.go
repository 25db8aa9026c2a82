package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleToolGuide serves the tool usage guide.
func HandleToolGuide(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var sb strings.Builder

		sb.WriteString("# Efficient Tool Usage Guide\n\n")
		fmt.Fprintf(&sb, "All paths are relative to the workspace root `%s`.\n\n", cfg.Root)

		sb.WriteString("## Which Tool\n\n")
		sb.WriteString("| Goal | Tool | Example |\n")
		sb.WriteString("|------|------|--------|\n")
		sb.WriteString("| Find files by name | `search_files` | `pattern: \"_test\", extension: \"go\"` |\n")
		sb.WriteString("| Find text inside files | `search_content` | `search_pattern: \"func New\", type: \"go\"` |\n")
		sb.WriteString("| See what changed lately | `recent_files` | `hours: 2` |\n")
		sb.WriteString("| Size a search before listing it | `count` | `extension: \"md\"` |\n")
		sb.WriteString("| Run a command per file | `exec` | `command: \"wc -l {}\", extension: \"go\"` |\n")

		sb.WriteString("\n**Key rules**:\n")
		sb.WriteString("- Patterns are regular expressions, not globs. Use `extension` or `file_pattern` for globs.\n")
		sb.WriteString("- `.gitignore` is respected unless `no_ignore: true`. Hidden entries need `hidden: true`.\n")
		fmt.Fprintf(&sb, "- Listings stop at %d results by default. Check `truncated` and raise `max_results` or narrow the pattern.\n", cfg.DefaultSearchLimit)
		fmt.Fprintf(&sb, "- `recent_files` looks back %v hours unless `hours` is set.\n", cfg.DefaultRecentHours)
		fmt.Fprintf(&sb, "- `context_lines` accepts 0 to %d.\n", cfg.MaxContextLines)

		sb.WriteString("\n## exec\n")
		sb.WriteString("- The command must contain `{}`. Each path is shell-quoted before substitution.\n")
		sb.WriteString("- The rest of the command runs through `sh` as written. Preview the file set with `search_files` first.\n")
		sb.WriteString("- One failing file does not stop the batch. Check `failures` and each `exit_status`.\n")

		sb.WriteString("\n## Errors\n")
		sb.WriteString("- `TOOL_UNAVAILABLE`: fd or ripgrep is not installed. Read `fdmcp://tools` for details.\n")
		sb.WriteString("- `INVALID_PARAMETER`: the message starts with the offending parameter name.\n")
		sb.WriteString("- `EXECUTION_TIMEOUT`: narrow `path` or the pattern and retry.\n")
		sb.WriteString("- `EXECUTION_FAILED`: the message carries the tool's stderr, usually a regex syntax error.\n")

		return &sdkmcp.GetPromptResult{
			Description: "Tool usage guide for fd-mcp",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
