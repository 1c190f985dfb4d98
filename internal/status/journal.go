package status

import (
	"context"
	"encoding/json"
	"log/slog"

	"git.home.luguber.info/inful/buildrunner/internal/eventstore"
	"git.home.luguber.info/inful/buildrunner/internal/logfields"
)

// JournalReporter wraps another reporter and records every payload in the
// local event store before delivery. Journal failures are logged but never
// block delivery; delivery failures never block journaling.
type JournalReporter struct {
	next  Reporter
	store eventstore.Store
}

// NewJournalReporter wraps next with local journaling.
func NewJournalReporter(next Reporter, store eventstore.Store) *JournalReporter {
	return &JournalReporter{next: next, store: store}
}

func (j *JournalReporter) Report(ctx context.Context, p Payload) error {
	if data, err := json.Marshal(p); err == nil {
		if err := j.store.Append(ctx, p.BuildID, p.UserID, string(p.Status), data); err != nil {
			slog.Warn("Failed to journal status event", logfields.Status(string(p.Status)), logfields.Error(err))
		}
	}
	return j.next.Report(ctx, p)
}

func (j *JournalReporter) Close() error {
	err := j.next.Close()
	if cerr := j.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
