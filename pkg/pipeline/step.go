package pipeline

import (
	"github.com/pkg/errors"

	"github.com/mgijax/mousemine-dumper/pkg/pipeline/model"
)

// Step describes an external program to run as part of a pipeline.
type Step struct {
	// Name identifies the step in logs and results. It must be unique in a pipeline.
	Name string
	// Command is the executable, looked up in PATH when it has no path separator.
	Command string
	Args    []string
	// Dir is the working directory of the process. Empty means the caller's.
	Dir string
	// Env holds KEY=VALUE pairs added to the caller's environment.
	Env []string
}

func (p *Pipeline) validateStep(step Step) error {
	if step.Name == "" {
		return ErrStepNameMustBeSet
	}

	if model.IsReservedName(step.Name) {
		return errors.Wrapf(ErrReservedStepName, "step %s", step.Name)
	}

	if step.Command == "" {
		return errors.Wrapf(ErrCommandMustBeSet, "step %s", step.Name)
	}

	if _, ok := p.names[step.Name]; ok {
		return errors.Wrapf(ErrDuplicateStep, "step %s", step.Name)
	}

	return nil
}

func prepareStep(p *Pipeline, step Step) (*model.StepInfo, error) {
	info := &model.StepInfo{
		Type:    model.CommandStepType,
		Index:   len(p.steps),
		Name:    step.Name,
		Command: step.Command,
		Args:    append([]string(nil), step.Args...),
		Dir:     step.Dir,
		Env:     append([]string(nil), step.Env...),
	}

	parent := model.StartStep
	if len(p.steps) > 0 {
		parent = p.steps[len(p.steps)-1]
	}

	for _, opt := range p.opts {
		err := opt.PrepareStep(parent, info)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to prepare step %s", step.Name)
		}
	}

	return info, nil
}

// AddStep appends a step to the pipeline. Steps run in the order they are added.
func AddStep(p *Pipeline, step Step) (*model.StepInfo, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	err := p.validateStep(step)
	if err != nil {
		return nil, err
	}

	info, err := prepareStep(p, step)
	if err != nil {
		return nil, err
	}

	p.steps = append(p.steps, info)
	p.names[info.Name] = struct{}{}

	return info, nil
}
