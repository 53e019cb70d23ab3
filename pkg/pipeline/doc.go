// Package pipeline provides a runner for a fixed, ordered sequence of external programs.
//
// Each step of a pipeline is a command with its arguments. Steps run one at a time, strictly in the order they were
// added: the pipeline launches a step, blocks until it terminates and inspects its termination status before
// considering the next one.
//
// The pipeline stops on the first failing step. A step fails when it cannot be launched at all (missing executable,
// permission denied) or when it terminates with a status other than 0. No step after a failing step is ever
// launched, and the run reports the index and the raw status of the step that failed.
//
// The result of a run is an explicit value, a Result with a Success or Failure outcome, rather than a status read
// from ambient state. The raw status of a failing step is kept in the result for diagnosis; callers turn the outcome
// into their own exit code.
//
// Options implementing model.PipelineOption are notified of every step lifecycle event. The measure and drawer
// packages provide such options.
//
// There is no timeout: a step that never terminates blocks the pipeline forever. Cancelling the context given to Run
// kills the running step, which then fails like any other step.
package pipeline
