package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/fd-mcp/pkg/types"
)

// CountInput is the input for count.
type CountInput struct {
	Pattern       string `json:"pattern" jsonschema:"Regex matched against file names. Empty counts everything."`
	Path          string `json:"path" jsonschema:"Directory to search, relative to the workspace root. Empty means the workspace root."`
	Type          string `json:"type,omitempty" jsonschema:"Entry type: file, dir, symlink, executable, empty, socket, pipe"`
	Extension     string `json:"extension,omitempty" jsonschema:"File extension filter"`
	Hidden        bool   `json:"hidden,omitempty" jsonschema:"Include hidden files and directories"`
	NoIgnore      bool   `json:"no_ignore,omitempty" jsonschema:"Do not respect .gitignore and other ignore files"`
	MaxDepth      int    `json:"max_depth,omitempty" jsonschema:"Maximum search depth"`
	Exclude       string `json:"exclude,omitempty" jsonschema:"Exclude entries matching this glob"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" jsonschema:"Case-sensitive match (default: smart case)"`
}

// CountOutput is the output for count.
type CountOutput struct {
	Count         int  `json:"count"`
	Truncated     bool `json:"truncated"`
	ParseWarnings int  `json:"parse_warnings,omitempty"`
}

// ToolCount counts matching entries without listing them.
func ToolCount(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input CountInput) (*sdkmcp.CallToolResult, CountOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input CountInput) (*sdkmcp.CallToolResult, CountOutput, error) {
		res, err := d.Engine.Count(ctx, &types.CountRequest{
			Pattern:       input.Pattern,
			Root:          input.Path,
			EntryType:     types.EntryType(input.Type),
			Extension:     input.Extension,
			Hidden:        input.Hidden,
			NoIgnore:      input.NoIgnore,
			MaxDepth:      input.MaxDepth,
			Exclude:       input.Exclude,
			CaseSensitive: input.CaseSensitive,
		})
		if err != nil {
			return nil, CountOutput{}, WrapSearchError(err)
		}

		text := printer.Sprintf("Found %d matches", res.Count)
		if res.Truncated {
			text = printer.Sprintf("Found at least %d matches (output cap reached)", res.Count)
		}
		return textResult(text), CountOutput{Count: res.Count, Truncated: res.Truncated, ParseWarnings: res.ParseWarnings}, nil
	}
}
