package pipeline

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"git.home.luguber.info/inful/buildrunner/internal/job"
	"git.home.luguber.info/inful/buildrunner/internal/logfields"
	"git.home.luguber.info/inful/buildrunner/internal/status"
	"git.home.luguber.info/inful/buildrunner/internal/storage"
)

// noLogsPlaceholder stands in when the job failed before any toolchain
// subprocess produced output.
const noLogsPlaceholder = "No build logs were produced before the failure."

// handleFailure is the job's terminal failed transition. It runs at most
// once: it assembles whatever logs exist, uploads them, and reports the
// final failed status with a sanitized snippet. Failures inside this path
// are logged locally (and journaled by the reporter) but do not prevent the
// non-zero exit.
func (p *Pipeline) handleFailure(ctx context.Context, st *stepState, cause error) {
	if p.failed {
		return
	}
	p.failed = true

	slog.Error("Build job failed", logfields.BuildID(p.job.BuildID), logfields.Error(cause))
	status.Advise(ctx, p.reporter, status.LogUpdate(p.job, "Preparing build logs"))

	combined := p.combineLogs(st)

	logURL := ""
	key := p.job.LogKey()
	if err := p.store.Upload(ctx, key, strings.NewReader(combined), storage.ContentTypeFor(key)); err != nil {
		slog.Error("Failed to upload build logs", logfields.StorageKey(key), logfields.Error(err))
	} else {
		logURL = p.store.PublicURL(key)
		p.recorder.ObserveUploadBytes("log", int64(len(combined)))
	}

	snippet := Snippet(combined, SnippetLines)

	_ = p.job.Transition(job.StateFailed)
	if err := p.reporter.Report(ctx, status.Failed(p.job, logURL, snippet)); err != nil {
		slog.Error("Failed to deliver terminal failure status", logfields.Error(err))
	}
	p.recorder.IncJobOutcome(string(job.StateFailed))
	p.recorder.ObserveJobDuration(time.Since(p.job.StartedAt))
}

// combineLogs concatenates whichever step logs exist: install + build, build
// alone, or the placeholder when nothing ran.
func (p *Pipeline) combineLogs(st *stepState) string {
	if st.runner == nil {
		return noLogsPlaceholder
	}

	var parts []string
	for _, path := range []string{st.runner.InstallLogPath(), st.runner.BuildLogPath()} {
		data, err := os.ReadFile(path)
		if err != nil || len(data) == 0 {
			continue
		}
		parts = append(parts, string(data))
	}
	if len(parts) == 0 {
		return noLogsPlaceholder
	}
	return strings.Join(parts, "\n")
}
