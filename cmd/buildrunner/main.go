package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/buildrunner/internal/config"
	"git.home.luguber.info/inful/buildrunner/internal/eventstore"
	"git.home.luguber.info/inful/buildrunner/internal/job"
	"git.home.luguber.info/inful/buildrunner/internal/logfields"
	"git.home.luguber.info/inful/buildrunner/internal/metrics"
	"git.home.luguber.info/inful/buildrunner/internal/pipeline"
	"git.home.luguber.info/inful/buildrunner/internal/status"
	"git.home.luguber.info/inful/buildrunner/internal/storage"
	"git.home.luguber.info/inful/buildrunner/internal/version"
	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"runner.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Run struct {
	} `cmd:"" help:"Execute the configured build job"`

	Validate struct {
	} `cmd:"" help:"Validate the configuration without running a job"`

	Version struct {
	} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "run":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", logfields.Error(err))
			os.Exit(1)
		}
		if err := runJob(cfg); err != nil {
			os.Exit(1)
		}
	case "validate":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Configuration invalid", logfields.Error(err))
			os.Exit(1)
		}
		slog.Info("Configuration valid")
		for k, v := range cfg.Redacted() {
			slog.Debug("Config", slog.String(k, v))
		}
	case "version":
		fmt.Printf("buildrunner %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	default:
		_ = ctx.PrintUsage(false)
		os.Exit(1)
	}
}

// runJob wires the job dependencies and runs the pipeline. Any fatal step
// error has already been handled (logs uploaded, failed status reported)
// when this returns; the caller only sets the exit code.
func runJob(cfg *config.Config) error {
	buildType, _ := job.BuildTypeFromString(cfg.Job.BuildType)
	j, err := job.New(cfg.Job.BuildID, cfg.Job.UserID, buildType)
	if err != nil {
		slog.Error("Failed to construct job", logfields.Error(err))
		return err
	}

	if err := os.MkdirAll(cfg.Workspace, 0750); err != nil {
		slog.Error("Failed to create workspace", logfields.Path(cfg.Workspace), logfields.Error(err))
		return err
	}

	reporter, err := buildReporter(cfg)
	if err != nil {
		slog.Error("Failed to initialize status reporting", logfields.Error(err))
		return err
	}
	defer reporter.Close()

	store, err := storage.New(cfg.Storage)
	if err != nil {
		slog.Error("Failed to initialize object storage", logfields.Error(err))
		return err
	}
	defer store.Close()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Listen, metrics.HTTPHandler(reg)); err != nil {
				slog.Warn("Metrics listener stopped", logfields.Error(err))
			}
		}()
	}

	slog.Info("Starting build job",
		logfields.BuildID(j.BuildID),
		logfields.UserID(j.UserID),
		logfields.BuildType(string(j.BuildType)))

	return pipeline.New(cfg, j, reporter, store, recorder).Run(context.Background())
}

// buildReporter assembles the reporter chain: HTTP webhook, optional NATS
// mirror, with every payload journaled to the local event store.
func buildReporter(cfg *config.Config) (status.Reporter, error) {
	var reporters []status.Reporter
	reporters = append(reporters, status.NewHTTPReporter(cfg.Webhook.URL, cfg.Webhook.Secret, cfg.Webhook.Timeout))

	if cfg.Events.Enabled {
		nr, err := status.NewNATSReporter(cfg.Events.NATSURL, cfg.Events.SubjectPrefix)
		if err != nil {
			// The mirror is advisory; a down broker must not fail the job.
			slog.Warn("NATS status mirror unavailable", logfields.Error(err))
		} else {
			reporters = append(reporters, nr)
		}
	}

	journal, err := eventstore.NewSQLiteStore(filepath.Join(cfg.Workspace, "events.db"))
	if err != nil {
		return nil, err
	}
	return status.NewJournalReporter(status.NewMultiReporter(reporters...), journal), nil
}
