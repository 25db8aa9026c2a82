package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/fd-mcp/pkg/types"
)

// ExecInput is the input for exec.
type ExecInput struct {
	Command   string `json:"command" jsonschema:"Shell command run once per matched file. {} is replaced with the quoted file path, e.g. 'wc -l {}'"`
	Pattern   string `json:"pattern" jsonschema:"Regex matched against file names. Empty matches everything."`
	Path      string `json:"path,omitempty" jsonschema:"Directory to search, relative to the workspace root"`
	Type      string `json:"type,omitempty" jsonschema:"Entry type: file, dir, symlink, executable, empty, socket, pipe"`
	Extension string `json:"extension,omitempty" jsonschema:"File extension filter"`
	Hidden    bool   `json:"hidden,omitempty" jsonschema:"Include hidden files"`
	NoIgnore  bool   `json:"no_ignore,omitempty" jsonschema:"Do not respect .gitignore and other ignore files"`
	MaxFiles  int    `json:"max_files,omitempty" jsonschema:"Maximum files to run the command on (default: 100)"`
}

// ExecOutput is the output for exec.
type ExecOutput struct {
	Results       []types.ExecutionResult `json:"results,omitzero"`
	Truncated     bool                    `json:"truncated"`
	Failures      int                     `json:"failures"`
	ParseWarnings int                     `json:"parse_warnings,omitempty"`
	Hint          string                  `json:"hint,omitempty"`
}

// ToolExec runs a command template against every file fd finds.
func ToolExec(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExecInput) (*sdkmcp.CallToolResult, ExecOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExecInput) (*sdkmcp.CallToolResult, ExecOutput, error) {
		res, err := d.Engine.Exec(ctx, &types.ExecRequest{
			Command:   input.Command,
			Pattern:   input.Pattern,
			Root:      input.Path,
			EntryType: types.EntryType(input.Type),
			Extension: input.Extension,
			Hidden:    input.Hidden,
			NoIgnore:  input.NoIgnore,
			MaxFiles:  input.MaxFiles,
		})
		if err != nil {
			return nil, ExecOutput{}, WrapSearchError(err)
		}

		var hint string
		switch {
		case len(res.Results) == 0:
			hint = "No files matched, so the command never ran."
		case res.Failures > 0:
			hint = printer.Sprintf("%d of %d commands failed. Check exit_status and output per file.", res.Failures, len(res.Results))
		default:
			hint = countHint(len(res.Results), "files processed", res.Truncated, "max_files")
		}

		lines := make([]string, 0, len(res.Results))
		for _, r := range res.Results {
			status := fmt.Sprintf("exit %d", r.ExitStatus)
			if r.TimedOut {
				status = "timed out"
			}
			line := fmt.Sprintf("== %s (%s)", r.Record.Path, status)
			if r.Output != "" {
				line += "\n" + strings.TrimRight(r.Output, "\n")
			}
			lines = append(lines, line)
		}

		out := ExecOutput{
			Results:       res.Results,
			Truncated:     res.Truncated,
			Failures:      res.Failures,
			ParseWarnings: res.ParseWarnings,
			Hint:          hint,
		}
		return textResult(summarize(lines, res.Truncated, nil)), out, nil
	}
}
