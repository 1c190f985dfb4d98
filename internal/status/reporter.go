package status

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/buildrunner/internal/logfields"
)

// Reporter delivers a status payload. Implementations return an error for
// observability, but callers treat delivery as best-effort and continue.
type Reporter interface {
	Report(ctx context.Context, p Payload) error
	Close() error
}

// Advise sends a payload and swallows any delivery error after logging it.
// This is the normal call path for non-terminal statuses.
func Advise(ctx context.Context, r Reporter, p Payload) {
	if err := r.Report(ctx, p); err != nil {
		slog.Warn("Status report failed, continuing", logfields.Status(string(p.Status)), logfields.Error(err))
	}
}

// MultiReporter fans a payload out to several reporters. Every reporter is
// attempted; the first error is returned for logging purposes.
type MultiReporter struct {
	reporters []Reporter
}

// NewMultiReporter builds a fan-out reporter. Nil entries are skipped.
func NewMultiReporter(reporters ...Reporter) *MultiReporter {
	m := &MultiReporter{}
	for _, r := range reporters {
		if r != nil {
			m.reporters = append(m.reporters, r)
		}
	}
	return m
}

func (m *MultiReporter) Report(ctx context.Context, p Payload) error {
	var first error
	for _, r := range m.reporters {
		if err := r.Report(ctx, p); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiReporter) Close() error {
	var first error
	for _, r := range m.reporters {
		if err := r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
