// Package logwatch optionally tails the active build log and mirrors new
// lines to the webhook as log_update statuses. It is a progress convenience:
// it never influences job control flow, and all delivery is best-effort.
package logwatch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/buildrunner/internal/job"
	"git.home.luguber.info/inful/buildrunner/internal/logfields"
	"git.home.luguber.info/inful/buildrunner/internal/status"
	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a log file and reports appended lines.
type Watcher struct {
	logPath  string
	reporter status.Reporter
	job      *job.Job
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	stopChan chan struct{}
	doneChan chan struct{}
	throttle time.Duration
	offset   int64
}

// NewWatcher creates a watcher for the given log file. Reports are throttled
// so chatty toolchains do not flood the webhook.
func NewWatcher(logPath string, j *job.Job, reporter status.Reporter) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(logPath)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to resolve log path: %w", err)
	}

	return &Watcher{
		logPath:  absPath,
		job:      j,
		reporter: reporter,
		watcher:  fsw,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
		throttle: 5 * time.Second,
	}, nil
}

// Start begins monitoring the log file's directory (more reliable than
// watching the file directly, which may not exist yet).
func (w *Watcher) Start(ctx context.Context) error {
	logDir := filepath.Dir(w.logPath)
	if err := w.watcher.Add(logDir); err != nil {
		return fmt.Errorf("failed to watch log directory %s: %w", logDir, err)
	}

	slog.Info("Starting log watcher", logfields.Path(w.logPath))
	go w.watchLoop(ctx)
	return nil
}

// Stop stops the watcher and waits for the loop to drain.
func (w *Watcher) Stop() {
	close(w.stopChan)
	<-w.doneChan
	_ = w.watcher.Close()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.doneChan)

	ticker := time.NewTicker(w.throttle)
	defer ticker.Stop()

	dirty := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			// Final flush so the last lines are not lost.
			w.flush(ctx)
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name == w.logPath && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				dirty = true
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Log watcher error", logfields.Error(err))
		case <-ticker.C:
			if dirty {
				dirty = false
				w.flush(ctx)
			}
		}
	}
}

// flush reads newly appended bytes and reports the last complete line.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.Open(w.logPath)
	if err != nil {
		return
	}
	defer f.Close()

	if _, err := f.Seek(w.offset, io.SeekStart); err != nil {
		return
	}

	var lastLine string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lastLine = line
		}
	}
	if pos, err := f.Seek(0, io.SeekCurrent); err == nil {
		w.offset = pos
	}

	if lastLine != "" {
		status.Advise(ctx, w.reporter, status.LogUpdate(w.job, lastLine))
	}
}
