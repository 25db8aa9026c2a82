// Package tools contains MCP tool implementations for fd-mcp.
package tools

import (
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/fd-mcp/pkg/types"
)

// MIME type constant.
const MimeJSON = "application/json"

// noMatches is the text result for an empty search.
const noMatches = "No matches found."

// maxSummaryLines caps how many records are echoed in the text summary.
const maxSummaryLines = 200

// printer formats counts with digit grouping, e.g. 12,345.
var printer = message.NewPrinter(language.English)

// textResult wraps a human-readable summary. The SDK adds the typed output
// as structured content next to it.
func textResult(text string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: text},
		},
	}
}

// summarize renders one line per record followed by a truncation note and
// any warnings.
func summarize(lines []string, truncated bool, warnings []string) string {
	if len(lines) == 0 && len(warnings) == 0 {
		return noMatches
	}

	var sb strings.Builder
	for i, l := range lines {
		if i == maxSummaryLines {
			printer.Fprintf(&sb, "... %d more in structured content\n", len(lines)-maxSummaryLines)
			break
		}
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	if len(lines) == 0 {
		sb.WriteString(noMatches)
		sb.WriteByte('\n')
	}
	if truncated {
		sb.WriteString("\n... more results (truncated)\n")
	}
	if len(warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range warnings {
			sb.WriteString(w)
			sb.WriteByte('\n')
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func recordPaths(records []types.MatchRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Path
	}
	return out
}

// countHint describes a result count for the hint field.
func countHint(n int, noun string, truncated bool, limitParam string) string {
	if truncated {
		return printer.Sprintf("Showing the first %d %s. Narrow the pattern or raise %s to see more.", n, noun, limitParam)
	}
	return printer.Sprintf("Found %d %s.", n, noun)
}
