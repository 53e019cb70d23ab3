// Package exitcode defines the process exit codes of the command line, the contract with the jobs that schedule the
// dump.
package exitcode

import (
	"context"
	"os"

	"github.com/pkg/errors"
)

const (
	// Success indicates that every step terminated with status 0.
	Success = 0
	// Failure indicates that a step failed, or that the pipeline could not be built or run.
	// The raw status of a failing step is never used as exit code.
	Failure = 1
	// Usage indicates invalid command usage (bad flags, unexpected arguments).
	Usage = 2
	// Interrupted indicates the run was cancelled by SIGINT or SIGTERM.
	Interrupted = 130
)

// UsageError marks an error caused by invalid command line usage.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// NewUsageError wraps err as a usage error. It returns nil for a nil err.
func NewUsageError(err error) error {
	if err == nil {
		return nil
	}

	return &UsageError{Err: err}
}

// Exit terminates the program with the given exit code.
func Exit(code int) {
	os.Exit(code)
}

// FromError returns the exit code matching err.
func FromError(err error) int {
	if err == nil {
		return Success
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return Usage
	}

	if errors.Is(err, context.Canceled) {
		return Interrupted
	}

	return Failure
}

// Describe returns a human-readable description of an exit code.
func Describe(code int) string {
	switch code {
	case Success:
		return "Success"
	case Failure:
		return "Pipeline failed"
	case Usage:
		return "Usage error (invalid flags or arguments)"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
