package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/fd-mcp/internal/argv"
	"github.com/usestring/fd-mcp/internal/history"
	"github.com/usestring/fd-mcp/internal/limit"
	"github.com/usestring/fd-mcp/internal/locate"
	"github.com/usestring/fd-mcp/internal/parse"
	"github.com/usestring/fd-mcp/internal/runner"
	"github.com/usestring/fd-mcp/pkg/types"
)

// Exec lists files with fd and runs req.Command once per file, substituting
// the {} placeholder with the file's path. A command failing or timing out
// for one file is recorded in that file's result and the batch carries on.
func (e *Engine) Exec(ctx context.Context, req *types.ExecRequest) (_ *types.ExecResult, err error) {
	defer e.guard("exec", &err)

	if err := checkTemplate(req.Command); err != nil {
		return nil, err
	}
	maxFiles, err := e.resultLimit("max_files", req.MaxFiles, e.cfg.DefaultExecLimit)
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
		Pattern:    req.Pattern,
		Root:       root,
		Type:       letter,
		Extension:  req.Extension,
		Hidden:     req.Hidden,
		NoIgnore:   req.NoIgnore,
		MaxResults: maxFiles + 1,
	})

	c, err := e.invoke(ctx, "exec", locate.FileFinder, bin, args)
	if err != nil {
		return nil, err
	}
	parsed := parse.Paths{}.Parse(c.res.Stdout)
	files, truncated := limit.Limit(parsed.Records, maxFiles)
	truncated = truncated || c.res.Truncated
	e.finish(c, len(files), parsed.Skipped, truncated)

	results, failures, err := e.runBatch(ctx, req.Command, files)
	if err != nil {
		return nil, err
	}

	return &types.ExecResult{
		Results:       results,
		Truncated:     truncated,
		Failures:      failures,
		ParseWarnings: parsed.Skipped,
	}, nil
}

// runBatch runs the expanded template for each file with at most
// ExecWorkers commands in flight. Results keep the order of files.
func (e *Engine) runBatch(ctx context.Context, template string, files []types.MatchRecord) ([]types.ExecutionResult, int, error) {
	results := make([]types.ExecutionResult, len(files))
	started := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.cfg.ExecWorkers, 1))
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			script := argv.ExpandTemplate(template, f.Path)
			res, err := e.runner.Shell(gctx, script, e.cfg.Root, e.cfg.ExecTimeout)
			r, err := execResult(f, res, err)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, &Error{Kind: KindExecutionFailed, Message: "exec batch interrupted", Cause: err}
	}

	failures := 0
	for _, r := range results {
		if r.TimedOut || r.ExitStatus != 0 {
			failures++
		}
	}
	outcome := runner.OutcomeOK.String()
	if failures > 0 {
		outcome = runner.OutcomePartial.String()
	}
	slog.Debug("exec batch finished",
		"files", len(files),
		"failures", failures,
		"duration", time.Since(started),
	)
	if e.history != nil {
		e.history.Record(history.Invocation{
			Operation: "exec",
			Tool:      "sh",
			Argv:      []string{"-c", template},
			Duration:  time.Since(started),
			ExitCode:  min(failures, 1),
			Records:   len(results),
			Outcome:   outcome,
			StartedAt: started,
		})
	}
	return results, failures, nil
}

// execResult turns one shell run into a per-file result. Only cancellation of
// the whole batch is returned as an error.
func execResult(f types.MatchRecord, res *runner.Result, err error) (types.ExecutionResult, error) {
	r := types.ExecutionResult{Record: f}

	var te *runner.TimeoutError
	switch {
	case errors.As(err, &te):
		r.TimedOut = true
		r.ExitStatus = -1
		r.Output = te.Error()
		return r, nil
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return r, err
	case err != nil:
		r.ExitStatus = -1
		r.Output = err.Error()
		return r, nil
	}

	r.ExitStatus = res.ExitCode
	r.Output = commandOutput(res)
	return r, nil
}

// commandOutput joins stdout and stderr, replacing binary output with a marker.
func commandOutput(res *runner.Result) string {
	var parts []string
	for _, stream := range [][]byte{res.Stdout, res.Stderr} {
		if len(stream) == 0 {
			continue
		}
		if runner.IsBinary(stream) {
			parts = append(parts, fmt.Sprintf("[binary output, %d bytes]", len(stream)))
			continue
		}
		parts = append(parts, strings.TrimRight(string(stream), "\r\n"))
	}
	out := strings.Join(parts, "\n")
	if res.Truncated {
		out += "\n[output truncated]"
	}
	return out
}
