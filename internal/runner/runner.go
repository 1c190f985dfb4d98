// Package runner invokes the build toolchain: dependency installation and
// platform compilation, each captured to its own log file.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/buildrunner/internal/config"
	runerr "git.home.luguber.info/inful/buildrunner/internal/errors"
	"git.home.luguber.info/inful/buildrunner/internal/job"
	"git.home.luguber.info/inful/buildrunner/internal/logfields"
)

const (
	InstallLogName = "install.log"
	BuildLogName   = "build.log"
)

// Runner executes toolchain commands inside the project directory.
type Runner struct {
	cfg        *config.Config
	projectDir string
	logDir     string
}

// New creates a runner for the given project directory. Logs are written
// under {workspace}/logs.
func New(cfg *config.Config, projectDir string) *Runner {
	return &Runner{
		cfg:        cfg,
		projectDir: projectDir,
		logDir:     filepath.Join(cfg.Workspace, "logs"),
	}
}

// InstallLogPath returns the dependency installation log path.
func (r *Runner) InstallLogPath() string { return filepath.Join(r.logDir, InstallLogName) }

// BuildLogPath returns the compilation log path.
func (r *Runner) BuildLogPath() string { return filepath.Join(r.logDir, BuildLogName) }

// InstallDependencies runs the package manager install step. A non-zero exit
// is fatal for the job.
func (r *Runner) InstallDependencies(ctx context.Context) error {
	argv := r.cfg.InstallCommand()
	if err := r.runLogged(ctx, argv, r.InstallLogPath()); err != nil {
		return runerr.BuildError(err, "dependency installation failed")
	}
	return nil
}

// Build runs the platform compilation for the requested build type. A
// non-zero exit is fatal for the job.
func (r *Runner) Build(ctx context.Context, buildType job.BuildType) error {
	argv := r.cfg.BuildCommand(string(buildType))
	if err := r.runLogged(ctx, argv, r.BuildLogPath()); err != nil {
		return runerr.BuildError(err, fmt.Sprintf("%s build failed", buildType))
	}
	return nil
}

// runLogged executes argv in the project directory with combined output
// captured to logPath.
func (r *Runner) runLogged(ctx context.Context, argv []string, logPath string) error {
	if err := os.MkdirAll(r.logDir, 0750); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("create log file %s: %w", logPath, err)
	}
	defer logFile.Close()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.projectDir
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	slog.Info("Running toolchain command", slog.String("command", strings.Join(argv, " ")), logfields.Path(logPath))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", argv[0], err)
	}
	return nil
}
