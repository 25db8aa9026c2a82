package search

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/usestring/fd-mcp/internal/argv"
	"github.com/usestring/fd-mcp/pkg/types"
)

// resultLimit applies the default for an unset limit and rejects anything
// negative or above the configured maximum.
func (e *Engine) resultLimit(field string, n, def int) (int, error) {
	switch {
	case n < 0:
		return 0, invalidParam(field, "must be positive, got %d", n)
	case n == 0:
		return def, nil
	case n > e.cfg.MaxResultsLimit:
		return 0, invalidParam(field, "must be at most %d, got %d", e.cfg.MaxResultsLimit, n)
	}
	return n, nil
}

func entryLetter(t types.EntryType) (string, error) {
	letter, ok := t.FdLetter()
	if !ok {
		return "", invalidParam("type", "unknown type %q, want one of file, dir, symlink, executable, empty, socket, pipe", string(t))
	}
	return letter, nil
}

func checkExtension(ext string) error {
	if strings.ContainsAny(ext, `/\`) {
		return invalidParam("extension", "must be a bare extension such as \"go\", got %q", ext)
	}
	return nil
}

func checkDepth(depth int) error {
	if depth < 0 {
		return invalidParam("max_depth", "must not be negative, got %d", depth)
	}
	return nil
}

func (e *Engine) hoursWindow(hours *float64) (float64, error) {
	if hours == nil {
		return e.cfg.DefaultRecentHours, nil
	}
	h := *hours
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return 0, invalidParam("hours", "must be a positive number, got %v", h)
	}
	return h, nil
}

func checkTemplate(command string) error {
	err := argv.CheckTemplate(command)
	if err == nil {
		return nil
	}
	if errors.Is(err, argv.ErrNoPlaceholder) {
		return invalidParam("command", "must contain the %s placeholder", argv.Placeholder)
	}
	return &Error{Kind: KindInvalidParameter, Field: "command", Message: "malformed command template", Cause: err}
}

// rootArg stats the requested root and returns the path argument to hand to
// the tool. Processes run in the workspace root, so relative roots resolve
// against it and results stay relative to it.
func (e *Engine) rootArg(root string) (string, error) {
	if root == "" {
		root = "."
	}
	target := root
	if !filepath.IsAbs(target) {
		target = filepath.Join(e.cfg.Root, root)
	}

	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", invalidParam("path", "%s does not exist", root)
		}
		return "", &Error{Kind: KindInvalidParameter, Field: "path", Message: "cannot access " + root, Cause: err}
	}
	if !info.IsDir() {
		return "", invalidParam("path", "%s is not a directory", root)
	}
	return root, nil
}
