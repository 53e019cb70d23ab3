//go:build !unix

package pipeline

import "os/exec"

// killProcessGroup keeps the default cancellation, which only kills the step process.
func killProcessGroup(_ *exec.Cmd) {}
