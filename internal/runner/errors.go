package runner

import (
	"fmt"
	"time"
)

// SpawnError is returned when a process cannot be started: missing binary,
// permission denied, or an unusable working directory.
type SpawnError struct {
	Path  string
	Dir   string
	Cause error
}

func (e *SpawnError) Error() string {
	if e.Dir != "" {
		return fmt.Sprintf("failed to start %s in %s: %v", e.Path, e.Dir, e.Cause)
	}
	return fmt.Sprintf("failed to start %s: %v", e.Path, e.Cause)
}

func (e *SpawnError) Unwrap() error { return e.Cause }

// TimeoutError is returned when a process outlives its deadline and is killed.
type TimeoutError struct {
	Cmd   string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Cmd, e.After)
}

// Timeout reports true, matching the net.Error convention.
func (e *TimeoutError) Timeout() bool { return true }
