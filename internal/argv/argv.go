// Package argv turns validated search options into argument vectors for fd
// and ripgrep.
//
// Every builder returns a discrete []string meant for exec without a shell.
// User-supplied patterns always follow a "--" separator or an "=" joined
// option, so a pattern such as "-x" or "; rm -rf /" is plain regex text to the
// tool and never an option or shell syntax.
package argv

import (
	"strconv"
	"strings"
)

// FindOptions configures an fd invocation.
type FindOptions struct {
	Pattern       string
	Root          string
	Type          string // fd type letter: f, d, l, x, e
	Extension     string
	Hidden        bool
	NoIgnore      bool
	CaseSensitive bool
	AbsolutePaths bool
	MaxDepth      int     // 0 means unlimited
	Exclude       string  // glob
	ChangedWithin float64 // hours, 0 means no time filter
	MaxResults    int     // 0 means unlimited
}

// Find builds the fd argument vector, without the executable itself.
func Find(o FindOptions) []string {
	args := make([]string, 0, 16)

	if o.Hidden {
		args = append(args, "--hidden")
	}
	if o.NoIgnore {
		args = append(args, "--no-ignore")
	}
	if o.CaseSensitive {
		args = append(args, "--case-sensitive")
	}
	if o.AbsolutePaths {
		args = append(args, "--absolute-path")
	}
	if o.Type != "" {
		args = append(args, "--type", o.Type)
	}
	if ext := NormalizeExtension(o.Extension); ext != "" {
		args = append(args, "--extension", ext)
	}
	if o.MaxDepth > 0 {
		args = append(args, "--max-depth", strconv.Itoa(o.MaxDepth))
	}
	if o.Exclude != "" {
		args = append(args, "--exclude", o.Exclude)
	}
	if o.ChangedWithin > 0 {
		args = append(args, "--changed-within", Seconds(o.ChangedWithin))
	}
	if o.MaxResults > 0 {
		args = append(args, "--max-results", strconv.Itoa(o.MaxResults))
	}

	pattern := o.Pattern
	if pattern == "" {
		pattern = "."
	}
	root := o.Root
	if root == "" {
		root = "."
	}
	return append(args, "--color=never", "--", pattern, root)
}

// GrepOptions configures a ripgrep invocation.
type GrepOptions struct {
	Pattern       string
	Root          string
	FileGlob      string
	FileType      string // rg type name, e.g. "go"
	Extension     string
	Hidden        bool
	NoIgnore      bool
	CaseSensitive bool
	ContextLines  int
	JSON          bool // emit --json instead of the NUL separated text grammar
}

// Grep builds the rg argument vector, without the executable itself.
//
// When both FileGlob and Extension are set the extension is left out: rg ORs
// multiple --glob whitelists, and the caller filters paths by extension
// instead.
func Grep(o GrepOptions) []string {
	args := make([]string, 0, 16)

	if o.JSON {
		args = append(args, "--json")
	} else {
		args = append(args, "--no-heading", "--with-filename", "--line-number", "--color=never", "--null")
	}
	if o.CaseSensitive {
		args = append(args, "--case-sensitive")
	} else {
		args = append(args, "--smart-case")
	}
	if o.Hidden {
		args = append(args, "--hidden")
	}
	if o.NoIgnore {
		args = append(args, "--no-ignore")
	}
	if o.ContextLines > 0 {
		args = append(args, "--context="+strconv.Itoa(o.ContextLines))
	}
	if o.FileGlob != "" {
		args = append(args, "--glob="+o.FileGlob)
	}
	if o.FileType != "" {
		args = append(args, "--type="+o.FileType)
	}
	if ext := NormalizeExtension(o.Extension); ext != "" && o.FileGlob == "" {
		args = append(args, "--glob=*."+ext)
	}

	root := o.Root
	if root == "" {
		root = "."
	}
	return append(args, "--regexp="+o.Pattern, "--", root)
}

// NormalizeExtension strips surrounding space and leading dots: ".go" -> "go".
func NormalizeExtension(ext string) string {
	return strings.TrimLeft(strings.TrimSpace(ext), ".")
}

// Seconds renders an hour window in fd's duration syntax. Fractional hours
// are expressed in whole seconds, rounded up so the window never shrinks to
// zero.
func Seconds(hours float64) string {
	secs := int64(hours * 3600)
	if float64(secs) < hours*3600 {
		secs++
	}
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10) + "s"
}
