package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mgijax/mousemine-dumper/pkg/pipeline/model"
)

// Pipeline is an ordered sequence of steps.
type Pipeline struct {
	launcher Launcher
	names    map[string]struct{}
	runID    string
	opts     []model.PipelineOption
	steps    []*model.StepInfo
}

// New creates a new pipeline.
func New(opts ...model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		launcher: &ExecLauncher{},
		names:    make(map[string]struct{}),
		runID:    uuid.NewString(),
		opts:     opts,
	}

	for _, opt := range opts {
		err := opt.New(pipe.runID)
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// RunID identifies the run in logs and results.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Steps returns the steps of the pipeline in execution order.
func (p *Pipeline) Steps() []*model.StepInfo {
	return append([]*model.StepInfo(nil), p.steps...)
}

// Run launches the steps one after the other and stops on the first failing step.
//
// A failing step is not an error: it is reported as a Failure outcome in the returned Result. The error is reserved
// for an empty or nil pipeline and for failing options. A failing option aborts the run: the Result then holds the
// steps launched so far, its outcome is Failure and every option is still finished.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	if len(p.steps) == 0 {
		return nil, ErrNoSteps
	}

	res := newResult(p.runID, len(p.steps))

	for idx, step := range p.steps {
		stepResult, err := p.runStep(ctx, step)
		if stepResult != nil {
			res.add(stepResult)
		}

		if err != nil {
			return res, p.abort(res, err)
		}

		if stepResult.Failed() {
			err = p.skipSteps(p.steps[idx+1:])
			if err != nil {
				return res, p.abort(res, err)
			}

			break
		}
	}

	res.EndTime = time.Now()

	return res, p.finishRun(res)
}

func (p *Pipeline) runStep(ctx context.Context, step *model.StepInfo) (*model.StepResult, error) {
	for _, opt := range p.opts {
		err := opt.OnStepStart(step)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to start step %s", step.Name)
		}
	}

	start := time.Now()
	status, err := p.launcher.Launch(ctx, step)
	stepResult := &model.StepResult{
		Step:     step,
		Status:   status,
		Err:      err,
		Duration: time.Since(start),
	}

	if err != nil && status == 0 {
		stepResult.Status = model.NoExitStatus
	}

	for _, opt := range p.opts {
		err := opt.OnStepDone(stepResult)
		if err != nil {
			return stepResult, errors.Wrapf(err, "unable to finish step %s", step.Name)
		}
	}

	return stepResult, nil
}

func (p *Pipeline) skipSteps(steps []*model.StepInfo) error {
	for _, step := range steps {
		for _, opt := range p.opts {
			err := opt.OnStepSkipped(step)
			if err != nil {
				return errors.Wrapf(err, "unable to skip step %s", step.Name)
			}
		}
	}

	return nil
}

// abort closes a run stopped by a failing option. Every option is finished, and cause is returned over any Finish
// error.
func (p *Pipeline) abort(res *Result, cause error) error {
	res.Outcome = model.Failure
	res.EndTime = time.Now()

	for _, opt := range p.opts {
		_ = opt.Finish(res.Outcome, res.Duration())
	}

	return cause
}

func (p *Pipeline) finishRun(res *Result) error {
	for _, opt := range p.opts {
		err := opt.Finish(res.Outcome, res.Duration())
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
