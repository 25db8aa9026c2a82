package runner

import (
	"context"
	"runtime"
	"time"
)

// Shell runs script through the platform shell (sh -c, or cmd /C on Windows).
// It is only used for exec command templates; fd and rg run through Run with
// an argument vector.
func (r *Runner) Shell(ctx context.Context, script, dir string, timeout time.Duration) (*Result, error) {
	return r.Run(ctx, shellCommand(script, dir, timeout))
}

func shellCommand(script, dir string, timeout time.Duration) Command {
	if runtime.GOOS == "windows" {
		return Command{Path: "cmd", Args: []string{"/C", script}, Dir: dir, Timeout: timeout}
	}
	return Command{Path: "/bin/sh", Args: []string{"-c", script}, Dir: dir, Timeout: timeout}
}
