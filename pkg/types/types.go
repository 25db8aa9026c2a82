// Package types provides shared types for fd-mcp.
// These types are used across multiple packages and are designed for external consumption.
package types

// MatchRecord is one path reported by the file finder.
type MatchRecord struct {
	Path       string `json:"path"`
	IsAbsolute bool   `json:"is_absolute"`
}

// ContentMatch is one matching line reported by the content searcher,
// together with the surrounding lines requested as context.
type ContentMatch struct {
	Path          string   `json:"path"`
	LineNumber    int      `json:"line_number"`
	MatchedText   string   `json:"matched_text"`
	ContextBefore []string `json:"context_before,omitempty"`
	ContextAfter  []string `json:"context_after,omitempty"`
}

// ExecutionResult is the outcome of running the exec command template
// against one matched path.
type ExecutionResult struct {
	Record     MatchRecord `json:"record"`
	Output     string      `json:"output"`
	ExitStatus int         `json:"exit_status"`
	TimedOut   bool        `json:"timed_out,omitempty"`
}

// EntryType filters file finder results by kind of filesystem entry.
type EntryType string

const (
	EntryFile       EntryType = "file"
	EntryDir        EntryType = "dir"
	EntrySymlink    EntryType = "symlink"
	EntryExecutable EntryType = "executable"
	EntryEmpty      EntryType = "empty"
	EntrySocket     EntryType = "socket"
	EntryPipe       EntryType = "pipe"
)

// entryLetters maps entry types and their fd single-letter aliases to the
// letter fd expects after --type.
var entryLetters = map[EntryType]string{
	EntryFile:       "f",
	EntryDir:        "d",
	EntrySymlink:    "l",
	EntryExecutable: "x",
	EntryEmpty:      "e",
	EntrySocket:     "s",
	EntryPipe:       "p",
	"f":             "f",
	"d":             "d",
	"l":             "l",
	"x":             "x",
	"e":             "e",
	"s":             "s",
	"p":             "p",
	"directory":     "d",
}

// FdLetter returns fd's --type letter for t, or false for an unknown type.
// The empty type has no letter and reports true.
func (t EntryType) FdLetter() (string, bool) {
	if t == "" {
		return "", true
	}
	l, ok := entryLetters[t]
	return l, ok
}
