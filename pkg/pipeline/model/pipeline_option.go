package model

import "time"

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option for the run identified by runID.
	New(runID string) error

	pipelineStepOption

	// Finish runs after the pipeline is finished, whatever its outcome.
	Finish(outcome Outcome, totalDuration time.Duration) error
}

// pipelineStepOption defines the interface for step options at the pipeline level.
type pipelineStepOption interface {
	// PrepareStep runs when the step is added to the pipeline.
	PrepareStep(parentStep, step *StepInfo) error
	// OnStepStart runs right before the step is launched.
	OnStepStart(step *StepInfo) error
	// OnStepDone runs once the step terminated or failed to launch.
	OnStepDone(result *StepResult) error
	// OnStepSkipped runs for every step left out after a failure.
	OnStepSkipped(step *StepInfo) error
}
