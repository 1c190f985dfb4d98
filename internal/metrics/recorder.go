package metrics

import "time"

// ResultLabel enumerates step result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFatal   ResultLabel = "fatal"
)

// Recorder defines observability hooks for job and step metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. The
// NoopRecorder allows optional injection.
type Recorder interface {
	ObserveStepDuration(step string, d time.Duration)
	ObserveJobDuration(d time.Duration)
	IncStepResult(step string, result ResultLabel)
	IncJobOutcome(outcome string) // outcome: complete|failed
	ObserveUploadBytes(kind string, n int64)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStepDuration(string, time.Duration) {}
func (NoopRecorder) ObserveJobDuration(time.Duration)          {}
func (NoopRecorder) IncStepResult(string, ResultLabel)         {}
func (NoopRecorder) IncJobOutcome(string)                      {}
func (NoopRecorder) ObserveUploadBytes(string, int64)          {}
