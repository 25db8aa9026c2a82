//go:build !unix

package runner

import "os/exec"

// configureProcess keeps the exec default: cancellation kills the direct child.
func configureProcess(cmd *exec.Cmd) {}
