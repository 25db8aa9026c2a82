package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/fd-mcp/pkg/types"
)

// SearchContentInput is the input for search_content.
type SearchContentInput struct {
	SearchPattern string `json:"search_pattern" jsonschema:"Regex to search for inside files"`
	FilePattern   string `json:"file_pattern,omitempty" jsonschema:"Glob restricting which files are searched, e.g. *.go or src/**"`
	Path          string `json:"path,omitempty" jsonschema:"Directory to search, relative to the workspace root"`
	Extension     string `json:"extension,omitempty" jsonschema:"File extension filter, e.g. py"`
	Type          string `json:"type,omitempty" jsonschema:"ripgrep file type, e.g. go, py, js, rust"`
	Hidden        bool   `json:"hidden,omitempty" jsonschema:"Search hidden files and directories"`
	NoIgnore      bool   `json:"no_ignore,omitempty" jsonschema:"Do not respect .gitignore and other ignore files"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" jsonschema:"Case-sensitive match (default: smart case)"`
	ContextLines  int    `json:"context_lines,omitempty" jsonschema:"Lines of context before and after each match (default: 0)"`
	MaxResults    int    `json:"max_results,omitempty" jsonschema:"Maximum matches (default: 100)"`
}

// SearchContentOutput is the output for search_content.
type SearchContentOutput struct {
	Matches       []types.ContentMatch `json:"matches,omitzero"`
	Truncated     bool                 `json:"truncated"`
	ParseWarnings int                  `json:"parse_warnings,omitempty"`
	Warnings      []string             `json:"warnings,omitzero"`
	Hint          string               `json:"hint,omitempty"`
}

// ToolSearchContent searches file contents with ripgrep.
func ToolSearchContent(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchContentInput) (*sdkmcp.CallToolResult, SearchContentOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchContentInput) (*sdkmcp.CallToolResult, SearchContentOutput, error) {
		res, err := d.Engine.SearchContent(ctx, &types.ContentRequest{
			SearchPattern: input.SearchPattern,
			FileGlob:      input.FilePattern,
			Root:          input.Path,
			Extension:     input.Extension,
			FileType:      input.Type,
			Hidden:        input.Hidden,
			NoIgnore:      input.NoIgnore,
			CaseSensitive: input.CaseSensitive,
			ContextLines:  input.ContextLines,
			MaxResults:    input.MaxResults,
		})
		if err != nil {
			return nil, SearchContentOutput{}, WrapSearchError(err)
		}

		var hint string
		switch {
		case len(res.Matches) == 0:
			hint = "No matches. The pattern is a regex: escape ( ) [ ] . * + ? for literal text."
		case len(res.Matches) == 1:
			hint = fmt.Sprintf("Single match at %s:%d. Raise context_lines to see more of the file.", res.Matches[0].Path, res.Matches[0].LineNumber)
		default:
			hint = countHint(len(res.Matches), "matches", res.Truncated, "max_results")
		}

		lines := make([]string, len(res.Matches))
		for i, m := range res.Matches {
			lines[i] = fmt.Sprintf("%s:%d:%s", m.Path, m.LineNumber, m.MatchedText)
		}

		out := SearchContentOutput{
			Matches:       res.Matches,
			Truncated:     res.Truncated,
			ParseWarnings: res.ParseWarnings,
			Warnings:      res.Warnings,
			Hint:          hint,
		}
		return textResult(summarize(lines, res.Truncated, res.Warnings)), out, nil
	}
}
