package search

import (
	"context"
	"slices"
	"strings"

	"github.com/usestring/fd-mcp/internal/argv"
	"github.com/usestring/fd-mcp/internal/config"
	"github.com/usestring/fd-mcp/internal/limit"
	"github.com/usestring/fd-mcp/internal/locate"
	"github.com/usestring/fd-mcp/pkg/types"
)

// MaxContextLines is the largest accepted context_lines.
const MaxContextLines = 100

// SearchContent finds lines matching req.SearchPattern with ripgrep.
func (e *Engine) SearchContent(ctx context.Context, req *types.ContentRequest) (_ *types.ContentResult, err error) {
	defer e.guard("search_content", &err)

	if req.SearchPattern == "" {
		return nil, invalidParam("search_pattern", "is required")
	}
	if req.ContextLines < 0 || req.ContextLines > MaxContextLines {
		return nil, invalidParam("context_lines", "must be between 0 and %d, got %d", MaxContextLines, req.ContextLines)
	}
	maxResults, err := e.resultLimit("max_results", req.MaxResults, e.cfg.DefaultSearchLimit)
	if err != nil {
		return nil, err
	}
	if err := checkExtension(req.Extension); err != nil {
		return nil, err
	}

	bin, err := e.resolve(locate.ContentSearch)
	if err != nil {
		return nil, err
	}
	root, err := e.rootArg(req.Root)
	if err != nil {
		return nil, err
	}

	args := argv.Grep(argv.GrepOptions{
		Pattern:       req.SearchPattern,
		Root:          root,
		FileGlob:      req.FileGlob,
		FileType:      req.FileType,
		Extension:     req.Extension,
		Hidden:        req.Hidden,
		NoIgnore:      req.NoIgnore,
		CaseSensitive: req.CaseSensitive,
		ContextLines:  req.ContextLines,
		JSON:          e.cfg.ContentFormat == config.ContentFormatJSON,
	})

	c, err := e.invoke(ctx, "search_content", locate.ContentSearch, bin, args)
	if err != nil {
		return nil, err
	}

	parsed := e.contentParser(req.ContextLines).Parse(c.res.Stdout)
	matches := parsed.Records
	// rg takes one --glob for the file pattern, so the extension is applied
	// here when both are set.
	if req.FileGlob != "" && req.Extension != "" {
		suffix := "." + strings.ToLower(argv.NormalizeExtension(req.Extension))
		matches = slices.DeleteFunc(matches, func(m types.ContentMatch) bool {
			return !strings.HasSuffix(strings.ToLower(m.Path), suffix)
		})
	}

	matches, truncated := limit.Limit(matches, maxResults)
	truncated = truncated || c.res.Truncated
	e.finish(c, len(matches), parsed.Skipped, truncated)

	return &types.ContentResult{
		Matches:       matches,
		Truncated:     truncated,
		ParseWarnings: parsed.Skipped,
		Warnings:      c.warnings(),
	}, nil
}
