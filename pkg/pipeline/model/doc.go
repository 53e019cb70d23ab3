// Package model provides the data structures shared by the pipeline package and its options.
// It defines the steps of a pipeline, the result of running a step, the outcome of a run
// and the hooks a pipeline option can implement.
package model
