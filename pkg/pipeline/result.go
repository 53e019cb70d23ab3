package pipeline

import (
	"time"

	"github.com/mgijax/mousemine-dumper/pkg/pipeline/model"
)

// Result is the outcome of a pipeline run.
type Result struct {
	StartTime time.Time
	EndTime   time.Time
	RunID     string
	// Steps holds the result of every launched step, in order.
	Steps   []*model.StepResult
	Outcome model.Outcome
	// FailedIndex is the index of the step that stopped the pipeline, -1 when no step failed.
	FailedIndex int
	// Status is the raw status of the failing step.
	Status int
}

func newResult(runID string, capacity int) *Result {
	return &Result{
		RunID:       runID,
		StartTime:   time.Now(),
		Steps:       make([]*model.StepResult, 0, capacity),
		Outcome:     model.Success,
		FailedIndex: -1,
	}
}

func (r *Result) add(stepResult *model.StepResult) {
	r.Steps = append(r.Steps, stepResult)
	if stepResult.Failed() && r.FailedIndex < 0 {
		r.Outcome = model.Failure
		r.FailedIndex = stepResult.Step.Index
		r.Status = stepResult.Status
	}
}

// Succeeded reports whether every step terminated with status 0.
func (r *Result) Succeeded() bool {
	return r.Outcome == model.Success
}

// FailedStep returns the result of the step that stopped the pipeline, nil when no step failed.
func (r *Result) FailedStep() *model.StepResult {
	if r.FailedIndex < 0 || r.FailedIndex >= len(r.Steps) {
		return nil
	}

	return r.Steps[r.FailedIndex]
}

// Err returns a *StepError describing the failing step, nil on success.
func (r *Result) Err() error {
	failed := r.FailedStep()
	if failed == nil {
		return nil
	}

	return &StepError{
		Index:  failed.Step.Index,
		Name:   failed.Step.Name,
		Status: failed.Status,
		Err:    failed.Err,
	}
}

// Duration returns the wall time of the run.
func (r *Result) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}

	return r.EndTime.Sub(r.StartTime)
}
