package measure_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgijax/mousemine-dumper/pkg/pipeline/measure"
	"github.com/mgijax/mousemine-dumper/pkg/pipeline/model"
)

func TestDefaultMeasure(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()

	assert.Nil(t, msr.GetMetric("dump-items"))

	mt := msr.AddMetric("dump-items")
	assert.Same(t, mt, msr.GetMetric("dump-items"))

	assert.Len(t, msr.Steps, 1)
}

func TestPipelineMeasure(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	opt := measure.PipelineMeasure(msr)

	dump := &model.StepInfo{Type: model.CommandStepType, Name: "dump-items", Index: 0}
	check := &model.StepInfo{Type: model.CommandStepType, Name: "check-ids", Index: 1}

	require.NoError(t, opt.New("run"))
	require.NoError(t, opt.PrepareStep(model.StartStep, dump))
	require.NoError(t, opt.PrepareStep(dump, check))

	require.NoError(t, opt.OnStepStart(dump))
	require.NoError(t, opt.OnStepDone(&model.StepResult{Step: dump, Status: 3, Duration: 1500 * time.Millisecond}))
	require.NoError(t, opt.OnStepSkipped(check))
	require.NoError(t, opt.Finish(model.Failure, 2*time.Second))

	assert.Len(t, msr.Steps, 4)

	dumpMetric := msr.GetMetric("dump-items")
	assert.Equal(t, int64(1), dumpMetric.Launches())
	assert.Equal(t, 2*time.Second, dumpMetric.Duration())
	assert.True(t, dumpMetric.GetTotalDuration() > 0)

	assert.Equal(t, int64(0), msr.GetMetric("check-ids").Launches())
	assert.Equal(t, 2*time.Second, msr.GetMetric(model.EndStep.Name).GetTotalDuration())
}

func TestPipelineMeasureUnknownStep(t *testing.T) {
	t.Parallel()

	opt := measure.PipelineMeasure(measure.NewDefaultMeasure())
	require.NoError(t, opt.New("run"))

	err := opt.OnStepDone(&model.StepResult{Step: &model.StepInfo{Name: "check-ids"}})
	require.ErrorIs(t, err, measure.ErrUnknownStep)
}
