package search

import (
	"context"

	"github.com/usestring/fd-mcp/internal/argv"
	"github.com/usestring/fd-mcp/internal/limit"
	"github.com/usestring/fd-mcp/internal/locate"
	"github.com/usestring/fd-mcp/internal/parse"
	"github.com/usestring/fd-mcp/pkg/types"
)

// RecentFiles lists entries modified within the last req.Hours hours.
func (e *Engine) RecentFiles(ctx context.Context, req *types.RecentRequest) (_ *types.RecentResult, err error) {
	defer e.guard("recent_files", &err)

	hours, err := e.hoursWindow(req.Hours)
	if err != nil {
		return nil, err
	}
	maxResults, err := e.resultLimit("max_results", req.MaxResults, e.cfg.DefaultRecentLimit)
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

	bin, err := e.resolve(locate.FileFinder)
	if err != nil {
		return nil, err
	}
	root, err := e.rootArg(req.Root)
	if err != nil {
		return nil, err
	}

	args := argv.Find(argv.FindOptions{
		Root:          root,
		Type:          letter,
		Extension:     req.Extension,
		ChangedWithin: hours,
		MaxResults:    maxResults + 1,
	})

	c, err := e.invoke(ctx, "recent_files", locate.FileFinder, bin, args)
	if err != nil {
		return nil, err
	}

	parsed := parse.Paths{}.Parse(c.res.Stdout)
	records, truncated := limit.Limit(parsed.Records, maxResults)
	truncated = truncated || c.res.Truncated
	e.finish(c, len(records), parsed.Skipped, truncated)

	return &types.RecentResult{
		Results:       records,
		Truncated:     truncated,
		Hours:         hours,
		ParseWarnings: parsed.Skipped,
		Warnings:      c.warnings(),
	}, nil
}
