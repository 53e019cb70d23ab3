package measure

import (
	"time"

	"github.com/pkg/errors"

	"github.com/mgijax/mousemine-dumper/pkg/pipeline/model"
)

var ErrUnknownStep = errors.New("no metric for step")

type pipelineMeasure struct {
	Measure
	startTime time.Time
}

func (pm *pipelineMeasure) New(_ string) error {
	pm.startTime = time.Now()
	pm.AddMetric(model.StartStep.Name)
	pm.AddMetric(model.EndStep.Name)

	return nil
}

func (pm *pipelineMeasure) PrepareStep(_, step *model.StepInfo) error {
	pm.AddMetric(step.Name)

	return nil
}

func (pm *pipelineMeasure) OnStepStart(_ *model.StepInfo) error {
	return nil
}

func (pm *pipelineMeasure) OnStepDone(result *model.StepResult) error {
	mt := pm.GetMetric(result.Step.Name)
	if mt == nil {
		return errors.Wrap(ErrUnknownStep, result.Step.Name)
	}

	mt.AddDuration(result.Duration)
	mt.SetTotalDuration(time.Since(pm.startTime))

	return nil
}

func (pm *pipelineMeasure) OnStepSkipped(_ *model.StepInfo) error {
	return nil
}

func (pm *pipelineMeasure) Finish(_ model.Outcome, totalDuration time.Duration) error {
	pm.GetMetric(model.EndStep.Name).SetTotalDuration(totalDuration)

	return nil
}

// PipelineMeasure returns a pipeline option recording the timings of every step into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{Measure: measure}
}
