// Package pipeline drives a build job through its steps in order: fetch,
// signing, install, build, locate, upload. Control flow is explicit: every
// step returns an error, the first fatal error diverts into the failure
// handler exactly once, and exactly one terminal status is reported per job.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/buildrunner/internal/config"
	"git.home.luguber.info/inful/buildrunner/internal/fetch"
	"git.home.luguber.info/inful/buildrunner/internal/job"
	"git.home.luguber.info/inful/buildrunner/internal/locate"
	"git.home.luguber.info/inful/buildrunner/internal/logfields"
	"git.home.luguber.info/inful/buildrunner/internal/logwatch"
	"git.home.luguber.info/inful/buildrunner/internal/metrics"
	"git.home.luguber.info/inful/buildrunner/internal/runner"
	"git.home.luguber.info/inful/buildrunner/internal/signing"
	"git.home.luguber.info/inful/buildrunner/internal/status"
	"git.home.luguber.info/inful/buildrunner/internal/storage"
	"github.com/google/uuid"
)

// Pipeline executes one build job.
type Pipeline struct {
	cfg      *config.Config
	job      *job.Job
	reporter status.Reporter
	store    storage.ObjectStore
	recorder metrics.Recorder

	runID  string
	failed bool
}

// New constructs a pipeline. A missing run ID is generated so the
// in_progress report always carries one.
func New(cfg *config.Config, j *job.Job, reporter status.Reporter, store storage.ObjectStore, recorder metrics.Recorder) *Pipeline {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	runID := cfg.Job.RunID
	if runID == "" {
		runID = uuid.New().String()
	}
	return &Pipeline{
		cfg:      cfg,
		job:      j,
		reporter: reporter,
		store:    store,
		recorder: recorder,
		runID:    runID,
	}
}

// stepState carries mutable state across steps.
type stepState struct {
	projectDir   string
	runner       *runner.Runner
	artifactPath string
	downloadURL  string
}

// step is a discrete unit of work in the job.
type step struct {
	name string
	fn   func(ctx context.Context, st *stepState) error
}

// Run executes the job. On any step failure the failure handler runs once
// and the step error is returned; the caller exits non-zero.
func (p *Pipeline) Run(ctx context.Context) error {
	_ = p.job.Transition(job.StateInProgress)
	status.Advise(ctx, p.reporter, status.InProgress(p.job, p.cfg.Job.Provider, p.runID))

	st := &stepState{}
	for _, s := range p.steps() {
		t0 := time.Now()
		err := s.fn(ctx, st)
		d := time.Since(t0)
		p.recorder.ObserveStepDuration(s.name, d)
		slog.Debug("Step finished", logfields.Step(s.name), logfields.DurationMS(float64(d.Milliseconds())))
		if err != nil {
			p.recorder.IncStepResult(s.name, metrics.ResultFatal)
			p.handleFailure(ctx, st, err)
			return err
		}
		p.recorder.IncStepResult(s.name, metrics.ResultSuccess)
	}

	_ = p.job.Transition(job.StateComplete)
	status.Advise(ctx, p.reporter, status.Complete(p.job, st.downloadURL))
	p.recorder.IncJobOutcome(string(job.StateComplete))
	p.recorder.ObserveJobDuration(time.Since(p.job.StartedAt))
	slog.Info("Build job complete", logfields.BuildID(p.job.BuildID), logfields.URL(st.downloadURL))
	return nil
}

func (p *Pipeline) steps() []step {
	return []step{
		{name: "fetch", fn: p.stepFetch},
		{name: "signing", fn: p.stepSigning},
		{name: "install", fn: p.stepInstall},
		{name: "build", fn: p.stepBuild},
		{name: "locate", fn: p.stepLocate},
		{name: "upload", fn: p.stepUpload},
	}
}

func (p *Pipeline) stepFetch(ctx context.Context, st *stepState) error {
	status.Advise(ctx, p.reporter, status.LogUpdate(p.job, "Downloading project source"))
	dir, err := fetch.NewFetcher(p.cfg.Workspace).Fetch(ctx, p.cfg.Source.URL, p.cfg.Source.GitBranch, p.cfg.Source.GitDepth)
	if err != nil {
		return err
	}
	st.projectDir = dir
	st.runner = runner.New(p.cfg, dir)
	return nil
}

func (p *Pipeline) stepSigning(ctx context.Context, st *stepState) error {
	if !p.job.BuildType.IsRelease() {
		return nil
	}
	status.Advise(ctx, p.reporter, status.LogUpdate(p.job, "Configuring release signing"))
	_, err := signing.NewConfigurator().Configure(ctx, p.cfg.Signing, p.job.BuildType, st.projectDir)
	return err
}

func (p *Pipeline) stepInstall(ctx context.Context, st *stepState) error {
	status.Advise(ctx, p.reporter, status.LogUpdate(p.job, "Installing dependencies"))
	return st.runner.InstallDependencies(ctx)
}

func (p *Pipeline) stepBuild(ctx context.Context, st *stepState) error {
	status.Advise(ctx, p.reporter, status.LogUpdate(p.job, "Building "+string(p.job.BuildType)))

	if p.cfg.Build.StreamLogs {
		if w, err := logwatch.NewWatcher(st.runner.BuildLogPath(), p.job, p.reporter); err != nil {
			slog.Warn("Log streaming unavailable", logfields.Error(err))
		} else if err := w.Start(ctx); err != nil {
			slog.Warn("Log streaming unavailable", logfields.Error(err))
		} else {
			defer w.Stop()
		}
	}

	return st.runner.Build(ctx, p.job.BuildType)
}

func (p *Pipeline) stepLocate(_ context.Context, st *stepState) error {
	path, err := locate.Artifact(st.projectDir, p.cfg.OutputDir(p.cfg.Job.BuildType), p.job.BuildType)
	if err != nil {
		return err
	}
	st.artifactPath = path
	return nil
}

func (p *Pipeline) stepUpload(ctx context.Context, st *stepState) error {
	status.Advise(ctx, p.reporter, status.LogUpdate(p.job, "Uploading artifact"))

	f, err := os.Open(st.artifactPath)
	if err != nil {
		return err
	}
	defer f.Close()

	key := p.job.ArtifactKey()
	if err := p.store.Upload(ctx, key, f, storage.ContentTypeFor(key)); err != nil {
		return err
	}
	if info, err := f.Stat(); err == nil {
		p.recorder.ObserveUploadBytes("artifact", info.Size())
	}
	st.downloadURL = p.store.PublicURL(key)
	slog.Info("Artifact uploaded", logfields.StorageKey(key), logfields.URL(st.downloadURL))
	return nil
}
