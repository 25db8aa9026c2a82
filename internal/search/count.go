package search

import (
	"context"

	"github.com/usestring/fd-mcp/internal/argv"
	"github.com/usestring/fd-mcp/internal/locate"
	"github.com/usestring/fd-mcp/internal/parse"
	"github.com/usestring/fd-mcp/pkg/types"
)

// Count returns how many entries match. Zero is a valid count.
//
// The count is exact unless the output cap was hit, in which case Truncated
// is set and the count is a lower bound.
func (e *Engine) Count(ctx context.Context, req *types.CountRequest) (_ *types.CountResult, err error) {
	defer e.guard("count", &err)

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

	args := argv.Find(argv.FindOptions{
		Pattern:       req.Pattern,
		Root:          root,
		Type:          letter,
		Extension:     req.Extension,
		Hidden:        req.Hidden,
		NoIgnore:      req.NoIgnore,
		CaseSensitive: req.CaseSensitive,
		MaxDepth:      req.MaxDepth,
		Exclude:       req.Exclude,
	})

	c, err := e.invoke(ctx, "count", locate.FileFinder, bin, args)
	if err != nil {
		return nil, err
	}

	n, skipped := parse.CountLines(c.res.Stdout)
	e.finish(c, n, skipped, c.res.Truncated)

	return &types.CountResult{
		Count:         n,
		Truncated:     c.res.Truncated,
		ParseWarnings: skipped,
	}, nil
}
