package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/fd-mcp/pkg/types"
)

// SearchFilesInput is the input for search_files.
type SearchFilesInput struct {
	Pattern       string `json:"pattern" jsonschema:"Regex matched against file names. Empty lists everything."`
	Path          string `json:"path" jsonschema:"Directory to search, relative to the workspace root. Empty means the workspace root."`
	Type          string `json:"type,omitempty" jsonschema:"Entry type: file, dir, symlink, executable, empty, socket, pipe (or f, d, l, x, e, s, p)"`
	Extension     string `json:"extension,omitempty" jsonschema:"File extension filter, e.g. go or .go"`
	Hidden        bool   `json:"hidden,omitempty" jsonschema:"Include hidden files and directories"`
	NoIgnore      bool   `json:"no_ignore,omitempty" jsonschema:"Do not respect .gitignore and other ignore files"`
	MaxDepth      int    `json:"max_depth,omitempty" jsonschema:"Maximum search depth (default: unlimited)"`
	Exclude       string `json:"exclude,omitempty" jsonschema:"Exclude entries matching this glob"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" jsonschema:"Case-sensitive match (default: smart case)"`
	AbsolutePath  bool   `json:"absolute_path,omitempty" jsonschema:"Return absolute paths"`
	MaxResults    int    `json:"max_results,omitempty" jsonschema:"Maximum results (default: 100)"`
}

// SearchFilesOutput is the output for search_files.
type SearchFilesOutput struct {
	Results       []types.MatchRecord `json:"results,omitzero"`
	Truncated     bool                `json:"truncated"`
	ParseWarnings int                 `json:"parse_warnings,omitempty"`
	Warnings      []string            `json:"warnings,omitzero"`
	Hint          string              `json:"hint,omitempty"`
}

// ToolSearchFiles finds files and directories by name with fd.
func ToolSearchFiles(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchFilesInput) (*sdkmcp.CallToolResult, SearchFilesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchFilesInput) (*sdkmcp.CallToolResult, SearchFilesOutput, error) {
		res, err := d.Engine.SearchFiles(ctx, &types.FilesRequest{
			Pattern:       input.Pattern,
			Root:          input.Path,
			EntryType:     types.EntryType(input.Type),
			Extension:     input.Extension,
			Hidden:        input.Hidden,
			NoIgnore:      input.NoIgnore,
			MaxDepth:      input.MaxDepth,
			Exclude:       input.Exclude,
			CaseSensitive: input.CaseSensitive,
			AbsolutePaths: input.AbsolutePath,
			MaxResults:    input.MaxResults,
		})
		if err != nil {
			return nil, SearchFilesOutput{}, WrapSearchError(err)
		}

		var hint string
		if len(res.Results) == 0 {
			hint = "No matches. Try hidden=true or no_ignore=true if the file may be hidden or gitignored."
		} else {
			hint = countHint(len(res.Results), "entries", res.Truncated, "max_results")
		}

		out := SearchFilesOutput{
			Results:       res.Results,
			Truncated:     res.Truncated,
			ParseWarnings: res.ParseWarnings,
			Warnings:      res.Warnings,
			Hint:          hint,
		}
		return textResult(summarize(recordPaths(res.Results), res.Truncated, res.Warnings)), out, nil
	}
}
