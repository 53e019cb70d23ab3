package drawer

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/mgijax/mousemine-dumper/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	lastStep string
}

func (pd *pipelineDrawer) New(_ string) error {
	err := pd.AddStep(model.StartStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start step to drawer")
	}

	err = pd.AddStep(model.EndStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end step to drawer")
	}

	pd.lastStep = model.StartStep.Name

	return nil
}

func (pd *pipelineDrawer) PrepareStep(parentStep, step *model.StepInfo) error {
	err := pd.AddStep(step.Name)
	if err != nil {
		return err
	}

	err = pd.AddLink(parentStep.Name, step.Name)
	if err != nil {
		return err
	}

	pd.lastStep = step.Name

	return nil
}

func (pd *pipelineDrawer) OnStepStart(_ *model.StepInfo) error {
	return nil
}

func (pd *pipelineDrawer) OnStepDone(result *model.StepResult) error {
	state := StateSucceeded
	label := fmt.Sprintf("exit %d, %s", result.Status, result.Duration.Round(time.Millisecond))

	if result.Failed() {
		state = StateFailed
		if result.Err != nil {
			label = result.Err.Error()
		}
	}

	return pd.SetState(result.Step.Name, state, label)
}

func (pd *pipelineDrawer) OnStepSkipped(step *model.StepInfo) error {
	return pd.SetState(step.Name, StateSkipped, "skipped")
}

func (pd *pipelineDrawer) Finish(outcome model.Outcome, totalDuration time.Duration) error {
	err := pd.AddLink(pd.lastStep, model.EndStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to link end step")
	}

	state := StateSucceeded
	if outcome == model.Failure {
		state = StateFailed
	}

	err = pd.SetState(model.EndStep.Name, state, totalDuration.Round(time.Millisecond).String())
	if err != nil {
		return errors.Wrap(err, "unable to set end state")
	}

	err = pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer returns a pipeline option drawing the run with drawer once it is finished.
func PipelineDrawer(drawer Drawer) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer}
}
