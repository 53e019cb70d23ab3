package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet = errors.New("p must be set")
	ErrNoSteps           = errors.New("pipeline must have at least one step")
	ErrStepNameMustBeSet = errors.New("step name must be set")
	ErrCommandMustBeSet  = errors.New("step command must be set")
	ErrDuplicateStep     = errors.New("step name already used")
	ErrReservedStepName  = errors.New("step name is reserved")
	ErrLaunch            = errors.New("unable to launch step")
	ErrStepFailed        = errors.New("step failed")
)

// StepError is returned by Result.Err when a step stopped the pipeline.
// errors.Is(err, ErrStepFailed) holds for every StepError.
type StepError struct {
	Err    error
	Name   string
	Index  int
	Status int
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("step %d (%s) failed", e.Index+1, e.Name)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}

	return fmt.Sprintf("%s with exit status %d", msg, e.Status)
}

// Cause returns the launch error of the step, if any.
func (e *StepError) Cause() error { return e.Err }

func (e *StepError) Unwrap() error { return e.Err }

func (e *StepError) Is(target error) bool { return target == ErrStepFailed }

// LaunchError is returned by a Launcher when the process could not be started.
// errors.Is(err, ErrLaunch) holds for every LaunchError.
type LaunchError struct {
	Err     error
	Command string
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("unable to launch %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

func (e *LaunchError) Is(target error) bool { return target == ErrLaunch }
