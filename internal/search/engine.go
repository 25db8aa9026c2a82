// Package search dispatches file and content searches to fd and ripgrep.
//
// Every operation validates its request, resolves the binary it needs, stats
// the root, and only then spawns a process. Failures come back as *Error so
// callers can tell an empty result from a broken one.
package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/usestring/fd-mcp/internal/config"
	"github.com/usestring/fd-mcp/internal/history"
	"github.com/usestring/fd-mcp/internal/locate"
	"github.com/usestring/fd-mcp/internal/parse"
	"github.com/usestring/fd-mcp/internal/runner"
	"github.com/usestring/fd-mcp/pkg/types"
)

// maxWarnings caps the stderr lines surfaced on a partial result.
const maxWarnings = 20

// ProcessRunner starts fd, rg and exec shell commands.
type ProcessRunner interface {
	Run(ctx context.Context, c runner.Command) (*runner.Result, error)
	Shell(ctx context.Context, script, dir string, timeout time.Duration) (*runner.Result, error)
}

// Deps are the collaborators an Engine needs. History is optional.
type Deps struct {
	Locator locate.Resolver
	Runner  ProcessRunner
	History *history.Log
}

// Engine implements the search operations.
type Engine struct {
	cfg     *config.Config
	locator locate.Resolver
	runner  ProcessRunner
	history *history.Log
}

// New creates an Engine.
func New(cfg *config.Config, d Deps) *Engine {
	return &Engine{
		cfg:     cfg,
		locator: d.Locator,
		runner:  d.Runner,
		history: d.History,
	}
}

// guard converts a panic inside an operation into an ExecutionFailed error.
func (e *Engine) guard(op string, errp *error) {
	if r := recover(); r != nil {
		slog.Error("search operation panicked",
			"operation", op,
			"panic", r,
			"stack", string(debug.Stack()),
		)
		*errp = &Error{
			Kind:    KindExecutionFailed,
			Message: "internal error in " + op,
			Cause:   fmt.Errorf("panic: %v", r),
		}
	}
}

func (e *Engine) resolve(kind locate.Kind) (string, error) {
	path, err := e.locator.Resolve(kind)
	if err != nil {
		return "", toolUnavailable(kind.String(), err)
	}
	return path, nil
}

// call is one finished fd or rg run awaiting its parse.
type call struct {
	op      string
	tool    string
	args    []string
	started time.Time
	res     *runner.Result
	outcome runner.Outcome
}

// invoke runs a search tool in the workspace root and classifies its exit.
// A failed run is recorded in history before its error is returned.
func (e *Engine) invoke(ctx context.Context, op string, kind locate.Kind, bin string, args []string) (*call, error) {
	c := &call{op: op, tool: kind.String(), args: args, started: time.Now()}

	res, err := e.runner.Run(ctx, runner.Command{
		Path:    bin,
		Args:    args,
		Dir:     e.cfg.Root,
		Timeout: e.cfg.CommandTimeout,
	})
	if err != nil {
		e.recordFailure(c, -1, err)
		return nil, runError(c.tool, err)
	}
	c.res = res
	c.outcome = runner.Classify(res)

	slog.Debug("search tool finished",
		"operation", op,
		"tool", c.tool,
		"exit_code", res.ExitCode,
		"outcome", c.outcome.String(),
		"duration", res.Duration,
		"stdout_bytes", len(res.Stdout),
	)

	if c.outcome == runner.OutcomeFailed {
		stderr := strings.TrimSpace(string(res.Stderr))
		e.recordFailure(c, res.ExitCode, errors.New(stderr))
		return nil, executionFailed(c.tool, stderr, fmt.Errorf("exit status %d", res.ExitCode))
	}
	return c, nil
}

func runError(tool string, err error) error {
	var te *runner.TimeoutError
	if errors.As(err, &te) {
		return executionTimeout(tool, err)
	}
	return &Error{Kind: KindExecutionFailed, Message: tool + " could not run", Cause: err}
}

// finish logs parse warnings and appends the run to history.
func (e *Engine) finish(c *call, records, skipped int, truncated bool) {
	if skipped > 0 {
		slog.Warn("skipped malformed output lines",
			"operation", c.op,
			"tool", c.tool,
			"skipped", skipped,
		)
	}
	if e.history == nil {
		return
	}
	e.history.Record(history.Invocation{
		Operation:     c.op,
		Tool:          c.tool,
		Argv:          c.args,
		Duration:      time.Since(c.started),
		ExitCode:      c.res.ExitCode,
		Records:       records,
		ParseWarnings: skipped,
		Outcome:       c.outcome.String(),
		Truncated:     truncated,
		StartedAt:     c.started,
	})
}

func (e *Engine) recordFailure(c *call, exitCode int, err error) {
	slog.Debug("search tool failed",
		"operation", c.op,
		"tool", c.tool,
		"error", err,
	)
	if e.history == nil {
		return
	}
	outcome := runner.OutcomeFailed.String()
	var te *runner.TimeoutError
	if errors.As(err, &te) {
		outcome = "timeout"
	}
	e.history.Record(history.Invocation{
		Operation: c.op,
		Tool:      c.tool,
		Argv:      c.args,
		Duration:  time.Since(c.started),
		ExitCode:  exitCode,
		Outcome:   outcome,
		StartedAt: c.started,
	})
}

// warnings returns stderr lines worth surfacing alongside a partial result.
func (c *call) warnings() []string {
	if c.outcome != runner.OutcomePartial {
		return nil
	}
	var out []string
	for line := range bytes.Lines(c.res.Stderr) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if len(out) == maxWarnings {
			out = append(out, "... further warnings omitted")
			break
		}
		out = append(out, string(line))
	}
	return out
}

// contentParser picks the rg grammar matching the configured output format.
func (e *Engine) contentParser(contextLines int) parse.Parser[types.ContentMatch] {
	if e.cfg.ContentFormat == config.ContentFormatJSON {
		return parse.RipgrepJSON{ContextLines: contextLines}
	}
	return parse.RipgrepText{ContextLines: contextLines}
}
