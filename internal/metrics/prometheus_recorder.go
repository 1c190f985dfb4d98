package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once         sync.Once
	stepDuration *prom.HistogramVec
	jobDuration  prom.Histogram
	stepResults  *prom.CounterVec
	jobOutcome   *prom.CounterVec
	uploadBytes  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stepDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "buildrunner",
			Name:      "step_duration_seconds",
			Help:      "Duration of individual pipeline steps",
			Buckets:   prom.DefBuckets,
		}, []string{"step"})
		pr.jobDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "buildrunner",
			Name:      "job_duration_seconds",
			Help:      "Total job duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stepResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "buildrunner",
			Name:      "step_results_total",
			Help:      "Step result counts by outcome",
		}, []string{"step", "result"})
		pr.jobOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "buildrunner",
			Name:      "job_outcomes_total",
			Help:      "Job outcomes by terminal status",
		}, []string{"outcome"})
		pr.uploadBytes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "buildrunner",
			Name:      "upload_bytes_total",
			Help:      "Bytes uploaded to object storage by object kind",
		}, []string{"kind"})
		reg.MustRegister(pr.stepDuration, pr.jobDuration, pr.stepResults, pr.jobOutcome, pr.uploadBytes)
	})
	return pr
}

func (pr *PrometheusRecorder) ObserveStepDuration(step string, d time.Duration) {
	pr.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveJobDuration(d time.Duration) {
	pr.jobDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncStepResult(step string, result ResultLabel) {
	pr.stepResults.WithLabelValues(step, string(result)).Inc()
}

func (pr *PrometheusRecorder) IncJobOutcome(outcome string) {
	pr.jobOutcome.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) ObserveUploadBytes(kind string, n int64) {
	pr.uploadBytes.WithLabelValues(kind).Add(float64(n))
}
