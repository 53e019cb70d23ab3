package pipeline_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mgijax/mousemine-dumper/pkg/pipeline"
	"github.com/mgijax/mousemine-dumper/pkg/pipeline/model"
)

type fakeOutcome struct {
	err    error
	status int
}

// fakeLauncher records the steps it is asked to launch and returns a preset outcome per step name.
type fakeLauncher struct {
	outcomes map[string]fakeOutcome
	launched []string
	mu       sync.Mutex
}

func newFakeLauncher(outcomes map[string]fakeOutcome) *fakeLauncher {
	return &fakeLauncher{outcomes: outcomes}
}

func (f *fakeLauncher) Launch(_ context.Context, step *model.StepInfo) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.launched = append(f.launched, step.Name)
	out := f.outcomes[step.Name]

	return out.status, out.err
}

func (f *fakeLauncher) invoked(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, launched := range f.launched {
		if launched == name {
			return true
		}
	}

	return false
}

func (f *fakeLauncher) order() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.launched...)
}

// recordingOption records every hook call as "hook:step".
type recordingOption struct {
	failOn string
	calls  []string
}

func (r *recordingOption) record(call string) error {
	r.calls = append(r.calls, call)
	if call == r.failOn {
		return assertAnError
	}

	return nil
}

func (r *recordingOption) New(_ string) error { return r.record("new") }

func (r *recordingOption) PrepareStep(parent, step *model.StepInfo) error {
	return r.record("prepare:" + parent.Name + ">" + step.Name)
}

func (r *recordingOption) OnStepStart(step *model.StepInfo) error { return r.record("start:" + step.Name) }

func (r *recordingOption) OnStepDone(res *model.StepResult) error {
	return r.record("done:" + res.Step.Name)
}

func (r *recordingOption) OnStepSkipped(step *model.StepInfo) error {
	return r.record("skipped:" + step.Name)
}

func (r *recordingOption) Finish(outcome model.Outcome, _ time.Duration) error {
	return r.record("finish:" + outcome.String())
}

func newPipeline(t *testing.T, launcher pipeline.Launcher, names []string, opts ...model.PipelineOption) *pipeline.Pipeline {
	t.Helper()

	pipe, err := pipeline.New(opts...)
	if err != nil {
		t.Fatalf("unable to create pipeline: %v", err)
	}

	pipe.WithLauncher(launcher)

	for _, name := range names {
		_, err := pipeline.AddStep(pipe, pipeline.Step{Name: name, Command: name + ".py"})
		if err != nil {
			t.Fatalf("unable to add step %s: %v", name, err)
		}
	}

	return pipe
}
