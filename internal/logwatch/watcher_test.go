package logwatch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"git.home.luguber.info/inful/buildrunner/internal/job"
	"git.home.luguber.info/inful/buildrunner/internal/status"
)

type memReporter struct {
	mu       sync.Mutex
	messages []string
}

func (m *memReporter) Report(_ context.Context, p status.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, p.Message)
	return nil
}

func (m *memReporter) Close() error { return nil }

func (m *memReporter) all() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

func TestWatcherReportsAppendedLines(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "build.log")
	j, err := job.New("b1", "u1", job.BuildTypeDebugAPK)
	if err != nil {
		t.Fatalf("job: %v", err)
	}

	reporter := &memReporter{}
	w, err := NewWatcher(logPath, j, reporter)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	w.throttle = 50 * time.Millisecond

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := os.WriteFile(logPath, []byte("compiling module a\ncompiling module b\n"), 0600); err != nil {
		t.Fatalf("write log: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	w.Stop()

	msgs := reporter.all()
	if len(msgs) == 0 {
		t.Fatalf("expected at least one log_update")
	}
	if msgs[len(msgs)-1] != "compiling module b" {
		t.Fatalf("expected last line reported, got %q", msgs[len(msgs)-1])
	}
}

// TestWatcherFinalFlushOnStop: lines written just before Stop are not lost.
func TestWatcherFinalFlushOnStop(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "build.log")
	j, _ := job.New("b1", "u1", job.BuildTypeDebugAPK)

	reporter := &memReporter{}
	w, err := NewWatcher(logPath, j, reporter)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	w.throttle = time.Hour // never fires; only the final flush can report

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := os.WriteFile(logPath, []byte("final line\n"), 0600); err != nil {
		t.Fatalf("write log: %v", err)
	}
	w.Stop()

	msgs := reporter.all()
	if len(msgs) != 1 || msgs[0] != "final line" {
		t.Fatalf("expected final flush to report the line, got %v", msgs)
	}
}
