package pipeline

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mgijax/mousemine-dumper/pkg/pipeline/model"
)

// DefaultWaitDelay bounds how long output of a terminated step is still forwarded, when the process left descendants
// holding its output open.
const DefaultWaitDelay = 5 * time.Second

// Launcher starts the process of a step and blocks until it terminates.
//
// Launch returns the termination status of the process. A non-nil error means the process produced no usable
// status: it could not be launched, or it was killed. The status is then model.NoExitStatus.
type Launcher interface {
	Launch(ctx context.Context, step *model.StepInfo) (int, error)
}

// LauncherFunc adapts a function to the Launcher interface.
type LauncherFunc func(ctx context.Context, step *model.StepInfo) (int, error)

func (f LauncherFunc) Launch(ctx context.Context, step *model.StepInfo) (int, error) {
	return f(ctx, step)
}

// HeartbeatFunc is called periodically while a step is running.
type HeartbeatFunc func(step *model.StepInfo, elapsed time.Duration)

// ExecLauncher runs steps as local processes.
//
// A step whose output goes to an *os.File inherits the file directly. Any other writer is fed by a copy that stops
// WaitDelay after the process exited, so a background descendant cannot hold the step open.
type ExecLauncher struct {
	// Stdout receives the standard output of the process. Nil means os.Stdout.
	Stdout io.Writer
	// Stderr receives the standard error of the process. Nil means os.Stderr.
	Stderr io.Writer
	// WaitDelay is the grace period described above. Zero means DefaultWaitDelay.
	WaitDelay time.Duration
	// Heartbeat is the period of OnHeartbeat calls. Zero disables them.
	Heartbeat   time.Duration
	OnHeartbeat HeartbeatFunc
}

func (l *ExecLauncher) stdout() io.Writer {
	if l.Stdout == nil {
		return os.Stdout
	}

	return l.Stdout
}

func (l *ExecLauncher) stderr() io.Writer {
	if l.Stderr == nil {
		return os.Stderr
	}

	return l.Stderr
}

func (l *ExecLauncher) waitDelay() time.Duration {
	if l.WaitDelay <= 0 {
		return DefaultWaitDelay
	}

	return l.WaitDelay
}

func (l *ExecLauncher) command(ctx context.Context, step *model.StepInfo) *exec.Cmd {
	cmd := exec.CommandContext(ctx, step.Command, step.Args...)
	cmd.Dir = step.Dir
	cmd.Stdout = l.stdout()
	cmd.Stderr = l.stderr()
	cmd.WaitDelay = l.waitDelay()

	if len(step.Env) > 0 {
		cmd.Env = append(os.Environ(), step.Env...)
	}

	killProcessGroup(cmd)

	return cmd
}

// Launch implements Launcher.
func (l *ExecLauncher) Launch(ctx context.Context, step *model.StepInfo) (int, error) {
	err := ctx.Err()
	if err != nil {
		return model.NoExitStatus, &LaunchError{Command: step.Command, Err: err}
	}

	cmd := l.command(ctx, step)
	start := time.Now()

	err = cmd.Start()
	if err != nil {
		return model.NoExitStatus, &LaunchError{Command: step.Command, Err: err}
	}

	done := make(chan struct{})

	var grp errgroup.Group

	grp.Go(func() error {
		defer close(done)

		return cmd.Wait()
	})

	if l.Heartbeat > 0 && l.OnHeartbeat != nil {
		grp.Go(func() error {
			l.heartbeat(step, start, done)

			return nil
		})
	}

	return exitStatus(cmd, grp.Wait())
}

func (l *ExecLauncher) heartbeat(step *model.StepInfo, start time.Time, done <-chan struct{}) {
	ticker := time.NewTicker(l.Heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			l.OnHeartbeat(step, time.Since(start))
		}
	}
}

func exitStatus(cmd *exec.Cmd, waitErr error) (int, error) {
	if waitErr == nil {
		return cmd.ProcessState.ExitCode(), nil
	}

	// The process exited successfully but a descendant kept its output open past the wait delay.
	if errors.Is(waitErr, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success() {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return model.NoExitStatus, errors.Wrap(waitErr, "unable to wait for process")
	}

	// ExitCode is -1 when the process was killed by a signal.
	if exitErr.ExitCode() < 0 {
		return model.NoExitStatus, errors.Wrap(waitErr, "process terminated")
	}

	return exitErr.ExitCode(), nil
}

var _ Launcher = (*ExecLauncher)(nil)
