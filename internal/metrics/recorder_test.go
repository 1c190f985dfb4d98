package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestNoopRecorderSafe ensures the noop recorder can be called freely.
func TestNoopRecorderSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStepDuration("fetch", time.Second)
	r.ObserveJobDuration(time.Minute)
	r.IncStepResult("build", ResultFatal)
	r.IncJobOutcome("failed")
	r.ObserveUploadBytes("artifact", 1024)
}

func TestPrometheusRecorderCounts(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncStepResult("build", ResultSuccess)
	pr.IncStepResult("build", ResultSuccess)
	pr.IncJobOutcome("complete")
	pr.ObserveUploadBytes("artifact", 2048)

	if got := testutil.ToFloat64(pr.stepResults.WithLabelValues("build", string(ResultSuccess))); got != 2 {
		t.Fatalf("expected 2 step results, got %v", got)
	}
	if got := testutil.ToFloat64(pr.jobOutcome.WithLabelValues("complete")); got != 1 {
		t.Fatalf("expected 1 outcome, got %v", got)
	}
	if got := testutil.ToFloat64(pr.uploadBytes.WithLabelValues("artifact")); got != 2048 {
		t.Fatalf("expected 2048 upload bytes, got %v", got)
	}
}

func TestPrometheusRecorderRegisters(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStepDuration("fetch", time.Second)
	pr.ObserveJobDuration(5 * time.Second)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatalf("expected registered metric families")
	}
}
