package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgijax/mousemine-dumper/pkg/pipeline"
	"github.com/mgijax/mousemine-dumper/pkg/pipeline/model"
)

func TestAddStepNilPipe(t *testing.T) {
	t.Parallel()

	_, err := pipeline.AddStep(nil, pipeline.Step{Name: "dump-items", Command: "python"})
	require.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
}

func TestAddStepInvalid(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		step    pipeline.Step
		wantErr error
	}{
		"no name":    {step: pipeline.Step{Command: "python"}, wantErr: pipeline.ErrStepNameMustBeSet},
		"no command": {step: pipeline.Step{Name: "check-ids"}, wantErr: pipeline.ErrCommandMustBeSet},
		"duplicate":  {step: pipeline.Step{Name: "dump-items", Command: "python"}, wantErr: pipeline.ErrDuplicateStep},
		"start":      {step: pipeline.Step{Name: "start", Command: "python"}, wantErr: pipeline.ErrReservedStepName},
		"end":        {step: pipeline.Step{Name: "end", Command: "python"}, wantErr: pipeline.ErrReservedStepName},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pipe, err := pipeline.New()
			require.NoError(t, err)

			_, err = pipeline.AddStep(pipe, pipeline.Step{Name: "dump-items", Command: "python"})
			require.NoError(t, err)

			_, err = pipeline.AddStep(pipe, tc.step)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Len(t, pipe.Steps(), 1)
		})
	}
}

func TestAddStepCopiesArguments(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)

	args := []string{"idChecker.py", "./output"}
	info, err := pipeline.AddStep(pipe, pipeline.Step{Name: "check-ids", Command: "python", Args: args})
	require.NoError(t, err)

	args[1] = "changed"

	assert.Equal(t, []string{"idChecker.py", "./output"}, info.Args)
	assert.Equal(t, "python idChecker.py ./output", info.CommandLine())
	assert.Equal(t, model.CommandStepType, info.Type)
}

func TestAddStepPrepareError(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(&recordingOption{failOn: "prepare:start>dump-items"})
	require.NoError(t, err)

	_, err = pipeline.AddStep(pipe, pipeline.Step{Name: "dump-items", Command: "python"})
	require.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, pipe.Steps())
}
