package runner

import (
	"context"
	"os"
	"strings"
	"testing"

	"git.home.luguber.info/inful/buildrunner/internal/config"
	"git.home.luguber.info/inful/buildrunner/internal/job"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Workspace: t.TempDir(),
		Build: config.BuildConfig{
			Tool:           "sh",
			InstallArgs:    []string{"-c", "echo install output"},
			DebugAPKArgs:   []string{"-c", "echo debug build output"},
			ReleaseAPKArgs: []string{"-c", "echo release output"},
			ReleaseAABArgs: []string{"-c", "echo aab err >&2; exit 3"},
		},
	}
}

func TestInstallCapturesLog(t *testing.T) {
	cfg := testConfig(t)
	r := New(cfg, t.TempDir())

	if err := r.InstallDependencies(context.Background()); err != nil {
		t.Fatalf("install: %v", err)
	}
	data, err := os.ReadFile(r.InstallLogPath())
	if err != nil {
		t.Fatalf("read install log: %v", err)
	}
	if !strings.Contains(string(data), "install output") {
		t.Fatalf("install output not captured: %q", data)
	}
}

func TestBuildCapturesLog(t *testing.T) {
	cfg := testConfig(t)
	r := New(cfg, t.TempDir())

	if err := r.Build(context.Background(), job.BuildTypeDebugAPK); err != nil {
		t.Fatalf("build: %v", err)
	}
	data, err := os.ReadFile(r.BuildLogPath())
	if err != nil {
		t.Fatalf("read build log: %v", err)
	}
	if !strings.Contains(string(data), "debug build output") {
		t.Fatalf("build output not captured: %q", data)
	}
}

// TestBuildNonZeroExitIsFatal: the captured stderr stays in the log, and the
// non-zero exit surfaces as an error.
func TestBuildNonZeroExitIsFatal(t *testing.T) {
	cfg := testConfig(t)
	r := New(cfg, t.TempDir())

	err := r.Build(context.Background(), job.BuildTypeReleaseAAB)
	if err == nil {
		t.Fatalf("expected error from exit 3")
	}
	data, readErr := os.ReadFile(r.BuildLogPath())
	if readErr != nil {
		t.Fatalf("read build log: %v", readErr)
	}
	if !strings.Contains(string(data), "aab err") {
		t.Fatalf("stderr not captured: %q", data)
	}
}

func TestLogPathsSeparate(t *testing.T) {
	cfg := testConfig(t)
	r := New(cfg, t.TempDir())
	if r.InstallLogPath() == r.BuildLogPath() {
		t.Fatalf("install and build logs must be separate files")
	}
}
