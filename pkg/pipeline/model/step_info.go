package model

import (
	"strings"
	"time"
)

// NoExitStatus is the status of a step that never produced a termination status,
// because it could not be launched or because it was killed by a signal.
const NoExitStatus = -1

type stepType string

const (
	StartStepType   stepType = "start"
	CommandStepType stepType = "command"
	EndStepType     stepType = "end"
)

// StepInfo describes one external program invocation of a pipeline.
type StepInfo struct {
	Type    stepType
	Name    string
	Command string
	Args    []string
	Dir     string
	Env     []string
	Index   int
}

var (
	StartStep = &StepInfo{Type: StartStepType, Name: "start", Index: -1}
	EndStep   = &StepInfo{Type: EndStepType, Name: "end", Index: -1}
)

// IsReservedName reports whether name is used by the start or end step and cannot name a command step.
func IsReservedName(name string) bool {
	return name == StartStep.Name || name == EndStep.Name
}

// CommandLine returns the command and its arguments as a single string, for display only.
func (s *StepInfo) CommandLine() string {
	return strings.Join(append([]string{s.Command}, s.Args...), " ")
}

// StepResult is the termination of a launched step.
type StepResult struct {
	Step     *StepInfo
	Err      error
	Status   int
	Duration time.Duration
}

// Failed reports whether the step could not be launched or terminated with a non-zero status.
func (r *StepResult) Failed() bool {
	return r.Err != nil || r.Status != 0
}
