//go:build unix

package pipeline

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/pkg/errors"
)

// killProcessGroup starts the step in its own process group, so that cancelling the step also kills the processes
// it started.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}

		return err
	}
}
