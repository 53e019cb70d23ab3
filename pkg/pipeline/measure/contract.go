package measure

import "time"

// Measure holds one metric per step of a pipeline.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
}

// Metric records the timings of a single step.
type Metric interface {
	// AddDuration records the wall time of one launch of the step.
	AddDuration(elapsed time.Duration)
	// Duration returns the rounded wall time of the step.
	Duration() time.Duration
	// Launches returns how many times the step was launched.
	Launches() int64
	// SetTotalDuration records the time elapsed since the pipeline started when the step ended.
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
