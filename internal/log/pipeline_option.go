package log

import (
	"time"

	"github.com/mgijax/mousemine-dumper/pkg/pipeline/model"
)

type pipelineLogger struct {
	logger *Logger
	failed *model.StepResult
}

func (pl *pipelineLogger) New(runID string) error {
	pl.logger = pl.logger.With("run_id", runID)
	pl.logger.Info("pipeline created")

	return nil
}

func (pl *pipelineLogger) PrepareStep(parentStep, step *model.StepInfo) error {
	pl.logger.Debug("step added",
		"step", step.Name,
		"after", parentStep.Name,
		"command", step.CommandLine(),
	)

	return nil
}

func (pl *pipelineLogger) OnStepStart(step *model.StepInfo) error {
	pl.logger.Info("step started",
		"step", step.Name,
		"index", step.Index+1,
		"command", step.CommandLine(),
	)

	return nil
}

func (pl *pipelineLogger) OnStepDone(result *model.StepResult) error {
	args := []any{
		"step", result.Step.Name,
		"index", result.Step.Index + 1,
		"exit_code", result.Status,
		"duration", result.Duration.Round(time.Millisecond),
	}

	if result.Failed() {
		if pl.failed == nil {
			pl.failed = result
		}

		pl.logger.WithError(result.Err).Error("step failed", args...)

		return nil
	}

	pl.logger.Info("step finished", args...)

	return nil
}

func (pl *pipelineLogger) OnStepSkipped(step *model.StepInfo) error {
	pl.logger.Warn("step skipped", "step", step.Name, "index", step.Index+1)

	return nil
}

func (pl *pipelineLogger) Finish(outcome model.Outcome, totalDuration time.Duration) error {
	args := []any{
		"outcome", outcome.String(),
		"duration", totalDuration.Round(time.Millisecond),
	}

	if outcome == model.Failure {
		logger := pl.logger

		if failed := pl.failed; failed != nil {
			args = append(args,
				"failed_step", failed.Step.Name,
				"failed_index", failed.Step.Index+1,
				"exit_code", failed.Status,
			)
			logger = logger.WithError(failed.Err)
		}

		logger.Error("pipeline failed", args...)

		return nil
	}

	pl.logger.Info("pipeline finished", args...)

	return nil
}

// PipelineLogger returns a pipeline option logging every step lifecycle event with logger.
func PipelineLogger(logger *Logger) model.PipelineOption {
	return &pipelineLogger{logger: logger}
}
