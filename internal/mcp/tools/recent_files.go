package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/fd-mcp/pkg/types"
)

// RecentFilesInput is the input for recent_files.
type RecentFilesInput struct {
	Path       string   `json:"path,omitempty" jsonschema:"Directory to search, relative to the workspace root"`
	Hours      *float64 `json:"hours,omitempty" jsonschema:"Only entries modified within this many hours (default: 24)"`
	Type       string   `json:"type,omitempty" jsonschema:"Entry type: file, dir, symlink, executable, empty, socket, pipe"`
	Extension  string   `json:"extension,omitempty" jsonschema:"File extension filter"`
	MaxResults int      `json:"max_results,omitempty" jsonschema:"Maximum results (default: 50)"`
}

// RecentFilesOutput is the output for recent_files.
type RecentFilesOutput struct {
	Results       []types.MatchRecord `json:"results,omitzero"`
	Truncated     bool                `json:"truncated"`
	Hours         float64             `json:"hours"`
	ParseWarnings int                 `json:"parse_warnings,omitempty"`
	Warnings      []string            `json:"warnings,omitzero"`
	Hint          string              `json:"hint,omitempty"`
}

// ToolRecentFiles lists recently modified entries.
func ToolRecentFiles(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input RecentFilesInput) (*sdkmcp.CallToolResult, RecentFilesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input RecentFilesInput) (*sdkmcp.CallToolResult, RecentFilesOutput, error) {
		res, err := d.Engine.RecentFiles(ctx, &types.RecentRequest{
			Root:       input.Path,
			Hours:      input.Hours,
			EntryType:  types.EntryType(input.Type),
			Extension:  input.Extension,
			MaxResults: input.MaxResults,
		})
		if err != nil {
			return nil, RecentFilesOutput{}, WrapSearchError(err)
		}

		var hint string
		if len(res.Results) == 0 {
			hint = printer.Sprintf("Nothing changed in the last %v hours. Raise hours to widen the window.", res.Hours)
		} else {
			hint = countHint(len(res.Results), "recently modified entries", res.Truncated, "max_results")
		}

		out := RecentFilesOutput{
			Results:       res.Results,
			Truncated:     res.Truncated,
			Hours:         res.Hours,
			ParseWarnings: res.ParseWarnings,
			Warnings:      res.Warnings,
			Hint:          hint,
		}
		return textResult(summarize(recordPaths(res.Results), res.Truncated, res.Warnings)), out, nil
	}
}
