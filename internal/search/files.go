package search

import (
	"context"

	"github.com/usestring/fd-mcp/internal/argv"
	"github.com/usestring/fd-mcp/internal/limit"
	"github.com/usestring/fd-mcp/internal/locate"
	"github.com/usestring/fd-mcp/internal/parse"
	"github.com/usestring/fd-mcp/pkg/types"
)

// SearchFiles finds entries whose names match req.Pattern. Zero matches is an
// empty result, not an error.
func (e *Engine) SearchFiles(ctx context.Context, req *types.FilesRequest) (_ *types.FilesResult, err error) {
	defer e.guard("search_files", &err)

	maxResults, err := e.resultLimit("max_results", req.MaxResults, e.cfg.DefaultSearchLimit)
	if err != nil {
		return nil, err
	}
	letter, err := entryLetter(req.EntryType)
	if err != nil {
		return nil, err
	}
	if err := checkExtension(req.Extension); err != nil {
		return nil, err
	}
	if err := checkDepth(req.MaxDepth); err != nil {
		return nil, err
	}

	bin, err := e.resolve(locate.FileFinder)
	if err != nil {
		return nil, err
	}
	root, err := e.rootArg(req.Root)
	if err != nil {
		return nil, err
	}

	// One extra result tells a full page apart from a truncated one.
	args := argv.Find(argv.FindOptions{
		Pattern:       req.Pattern,
		Root:          root,
		Type:          letter,
		Extension:     req.Extension,
		Hidden:        req.Hidden,
		NoIgnore:      req.NoIgnore,
		CaseSensitive: req.CaseSensitive,
		AbsolutePaths: req.AbsolutePaths,
		MaxDepth:      req.MaxDepth,
		Exclude:       req.Exclude,
		MaxResults:    maxResults + 1,
	})

	c, err := e.invoke(ctx, "search_files", locate.FileFinder, bin, args)
	if err != nil {
		return nil, err
	}

	parsed := parse.Paths{}.Parse(c.res.Stdout)
	records, truncated := limit.Limit(parsed.Records, maxResults)
	truncated = truncated || c.res.Truncated
	e.finish(c, len(records), parsed.Skipped, truncated)

	return &types.FilesResult{
		Results:       records,
		Truncated:     truncated,
		ParseWarnings: parsed.Skipped,
		Warnings:      c.warnings(),
	}, nil
}
