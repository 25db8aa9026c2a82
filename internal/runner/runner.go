// Package runner executes external commands with a deadline and bounded,
// separately captured output.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// waitDelay bounds how long Wait keeps draining pipes after the process is
// killed. Grandchildren that inherited stdout would otherwise hold it open.
const waitDelay = 2 * time.Second

// Command describes one process invocation. Args never pass through a shell.
type Command struct {
	Path    string
	Args    []string
	Dir     string
	Timeout time.Duration // 0 means no deadline beyond ctx
}

// Name is the executable base name, used in errors and logs.
func (c Command) Name() string {
	return filepath.Base(c.Path)
}

// Result is the captured outcome of a process that ran to completion.
type Result struct {
	Stdout    []byte
	Stderr    []byte
	ExitCode  int
	Truncated bool // an output stream hit the byte cap
	Duration  time.Duration
}

// Runner starts processes. It holds no per-call state and is safe for
// concurrent use.
type Runner struct {
	maxOutputBytes int
}

// New creates a Runner capping each output stream at maxOutputBytes.
// A non-positive cap disables the limit.
func New(maxOutputBytes int) *Runner {
	return &Runner{maxOutputBytes: maxOutputBytes}
}

// Run executes c and waits for it.
//
// A non-zero exit is not an error: it is reported in Result.ExitCode and left
// to Classify. Errors are *SpawnError when the process could not start,
// *TimeoutError when c.Timeout elapsed (the process is killed and no output is
// returned), or the context error when ctx was cancelled.
func (r *Runner) Run(ctx context.Context, c Command) (*Result, error) {
	if c.Path == "" {
		return nil, &SpawnError{Path: c.Path, Dir: c.Dir, Cause: os.ErrInvalid}
	}
	if c.Dir != "" {
		info, err := os.Stat(c.Dir)
		if err != nil {
			return nil, &SpawnError{Path: c.Path, Dir: c.Dir, Cause: err}
		}
		if !info.IsDir() {
			return nil, &SpawnError{Path: c.Path, Dir: c.Dir, Cause: fmt.Errorf("%s is not a directory", c.Dir)}
		}
	}

	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if c.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
	}
	defer cancel()

	stdout := newCollector(r.maxOutputBytes)
	stderr := newCollector(r.maxOutputBytes)

	cmd := exec.CommandContext(runCtx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = nil
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	configureProcess(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Path: c.Path, Dir: c.Dir, Cause: err}
	}
	waitErr := cmd.Wait()
	elapsed := time.Since(start)

	if waitErr != nil && runCtx.Err() != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Cmd: c.Name(), After: c.Timeout}
		}
		return nil, fmt.Errorf("%s: %w", c.Name(), runCtx.Err())
	}

	res := &Result{
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Truncated: stdout.Truncated() || stderr.Truncated(),
		Duration:  elapsed,
	}
	if stdout.Truncated() {
		res.Stdout = trimPartialLine(res.Stdout)
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, &SpawnError{Path: c.Path, Dir: c.Dir, Cause: waitErr}
		}
		res.ExitCode = exitErr.ExitCode()
	}
	return res, nil
}
