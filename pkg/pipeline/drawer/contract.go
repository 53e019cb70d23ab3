package drawer

import "io"

// StepState is the state of a step once the pipeline is finished.
type StepState string

const (
	StateSucceeded StepState = "succeeded"
	StateFailed    StepState = "failed"
	StateSkipped   StepState = "skipped"
)

// Drawer is an interface that defines the methods for drawing a pipeline run.
type Drawer interface {
	// AddStep adds a step to the pipeline drawer.
	AddStep(stepName string) error
	// AddLink adds a link between parent and child steps.
	AddLink(parentStepName, childStepName string) error
	// SetState colours the step according to its state and annotates it with label.
	SetState(stepName string, state StepState, label string) error
	// Render writes the pipeline graph to wrt.
	Render(wrt io.Writer) error
	// Draw creates a file with the pipeline graph.
	Draw() error
}
