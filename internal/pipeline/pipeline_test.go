package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/buildrunner/internal/config"
	"git.home.luguber.info/inful/buildrunner/internal/job"
	"git.home.luguber.info/inful/buildrunner/internal/status"
	"git.home.luguber.info/inful/buildrunner/internal/storage"
)

// recordingReporter captures every payload in memory.
type recordingReporter struct {
	mu       sync.Mutex
	payloads []status.Payload
}

func (r *recordingReporter) Report(_ context.Context, p status.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, p)
	return nil
}

func (r *recordingReporter) Close() error { return nil }

func (r *recordingReporter) terminal() []status.Payload {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []status.Payload
	for _, p := range r.payloads {
		if p.Status.Terminal() {
			out = append(out, p)
		}
	}
	return out
}

func serveProjectZip(t *testing.T) *httptest.Server {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("app/pubspec.yaml")
	require.NoError(t, err)
	_, err = w.Write([]byte("name: app"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, buildType, sourceURL string) *config.Config {
	t.Helper()
	return &config.Config{
		Workspace: t.TempDir(),
		Job: config.JobConfig{
			BuildID:   "b1",
			UserID:    "u1",
			BuildType: buildType,
			Provider:  "test-ci",
			RunID:     "run-1",
		},
		Source: config.SourceConfig{URL: sourceURL},
		Build: config.BuildConfig{
			Tool:           "sh",
			InstallArgs:    []string{"-c", "echo resolving dependencies"},
			DebugAPKArgs:   []string{"-c", "mkdir -p build/app/outputs/apk/debug && printf binary > build/app/outputs/apk/debug/app-debug.apk && echo built"},
			ReleaseAABArgs: []string{"-c", "echo compile error >&2; exit 1"},
			DebugAPKDir:    "build/app/outputs/apk/debug",
			ReleaseAPKDir:  "build/app/outputs/apk/release",
			ReleaseAABDir:  "build/app/outputs/bundle/release",
		},
		Signing: config.SigningConfig{
			StorePassword:  "sp",
			KeyAlias:       "upload",
			KeyPassword:    "kp",
			KeystorePath:   "android/upload-keystore.jks",
			DescriptorPath: "android/signing.json",
		},
	}
}

func testStore(t *testing.T) *storage.FSStore {
	t.Helper()
	fs, err := storage.NewFSStore(t.TempDir(), "https://cdn.example.com")
	require.NoError(t, err)
	return fs
}

func newJob(t *testing.T, buildType job.BuildType) *job.Job {
	t.Helper()
	j, err := job.New("b1", "u1", buildType)
	require.NoError(t, err)
	return j
}

// TestRunDebugSuccess: debug-apk, valid archive, successful build -> one
// complete payload pointing at builds/u1/debug-apk-b1.apk.
func TestRunDebugSuccess(t *testing.T) {
	srv := serveProjectZip(t)
	cfg := testConfig(t, "debug-apk", srv.URL+"/app.zip")
	reporter := &recordingReporter{}
	store := testStore(t)

	err := New(cfg, newJob(t, job.BuildTypeDebugAPK), reporter, store, nil).Run(context.Background())
	require.NoError(t, err)

	terminal := reporter.terminal()
	require.Len(t, terminal, 1, "exactly one terminal status")
	final := terminal[0]
	require.Equal(t, status.KindComplete, final.Status)
	require.Equal(t, "https://cdn.example.com/builds/u1/debug-apk-b1.apk", final.DownloadURL)
	require.NotNil(t, final.Duration)
	require.GreaterOrEqual(t, *final.Duration, int64(0))
	require.Empty(t, final.LogURL)

	first := reporter.payloads[0]
	require.Equal(t, status.KindInProgress, first.Status)
	require.Equal(t, "test-ci", first.Provider)
	require.Equal(t, "run-1", first.RunID)

	// The artifact itself made it to the store.
	data, err := os.ReadFile(store.ObjectPath("builds/u1/debug-apk-b1.apk"))
	require.NoError(t, err)
	require.Equal(t, "binary", string(data))
}

// TestRunReleaseAABBuildFailure: toolchain exits non-zero -> failure path
// uploads the combined install+build log and reports failed with a snippet
// and no downloadUrl.
func TestRunReleaseAABBuildFailure(t *testing.T) {
	srv := serveProjectZip(t)
	keystore := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ks"))
	}))
	defer keystore.Close()

	cfg := testConfig(t, "release-aab", srv.URL+"/app.zip")
	cfg.Signing.KeystoreURL = keystore.URL
	reporter := &recordingReporter{}
	store := testStore(t)

	err := New(cfg, newJob(t, job.BuildTypeReleaseAAB), reporter, store, nil).Run(context.Background())
	require.Error(t, err)

	terminal := reporter.terminal()
	require.Len(t, terminal, 1, "exactly one terminal status")
	final := terminal[0]
	require.Equal(t, status.KindFailed, final.Status)
	require.Empty(t, final.DownloadURL)
	require.NotEmpty(t, final.LogSnippet)
	require.Equal(t, "https://cdn.example.com/logs/u1/b1.log", final.LogURL)
	require.NotNil(t, final.Duration)

	uploaded, err := os.ReadFile(store.ObjectPath("logs/u1/b1.log"))
	require.NoError(t, err)
	require.Contains(t, string(uploaded), "resolving dependencies", "install log included")
	require.Contains(t, string(uploaded), "compile error", "build log included")
}

// TestRunFetchFailure: failure before any subprocess ran -> placeholder log
// content and a failed report with no downloadUrl.
func TestRunFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := testConfig(t, "debug-apk", srv.URL+"/app.zip")
	reporter := &recordingReporter{}
	store := testStore(t)

	err := New(cfg, newJob(t, job.BuildTypeDebugAPK), reporter, store, nil).Run(context.Background())
	require.Error(t, err)

	terminal := reporter.terminal()
	require.Len(t, terminal, 1)
	require.Equal(t, status.KindFailed, terminal[0].Status)

	uploaded, err := os.ReadFile(store.ObjectPath("logs/u1/b1.log"))
	require.NoError(t, err)
	require.Equal(t, noLogsPlaceholder, string(uploaded))
	require.Equal(t, noLogsPlaceholder, terminal[0].LogSnippet)
}

// TestRunReleaseWritesSigningDescriptor: the release path must leave a
// descriptor with the bundle packaging type even though the build fails later.
func TestRunReleaseWritesSigningDescriptor(t *testing.T) {
	srv := serveProjectZip(t)
	keystore := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ks"))
	}))
	defer keystore.Close()

	cfg := testConfig(t, "release-aab", srv.URL+"/app.zip")
	cfg.Signing.KeystoreURL = keystore.URL
	reporter := &recordingReporter{}

	_ = New(cfg, newJob(t, job.BuildTypeReleaseAAB), reporter, testStore(t), nil).Run(context.Background())

	descPath := cfg.Workspace + "/project/app/android/signing.json"
	data, err := os.ReadFile(descPath)
	require.NoError(t, err)
	var desc map[string]any
	require.NoError(t, json.Unmarshal(data, &desc))
	require.Equal(t, "bundle", desc["packagingType"])
}

// TestRunDebugSkipsSigning: debug builds must not produce a descriptor.
func TestRunDebugSkipsSigning(t *testing.T) {
	srv := serveProjectZip(t)
	cfg := testConfig(t, "debug-apk", srv.URL+"/app.zip")
	reporter := &recordingReporter{}

	err := New(cfg, newJob(t, job.BuildTypeDebugAPK), reporter, testStore(t), nil).Run(context.Background())
	require.NoError(t, err)

	_, statErr := os.Stat(cfg.Workspace + "/project/app/android/signing.json")
	require.True(t, os.IsNotExist(statErr), "descriptor must not exist for debug builds")
}

// TestRunArtifactMissing: build succeeds but leaves no artifact -> failed
// with the not-found condition and no downloadUrl.
func TestRunArtifactMissing(t *testing.T) {
	srv := serveProjectZip(t)
	cfg := testConfig(t, "debug-apk", srv.URL+"/app.zip")
	cfg.Build.DebugAPKArgs = []string{"-c", "echo built nothing"}
	reporter := &recordingReporter{}

	err := New(cfg, newJob(t, job.BuildTypeDebugAPK), reporter, testStore(t), nil).Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "Build artifact not found")

	terminal := reporter.terminal()
	require.Len(t, terminal, 1)
	require.Equal(t, status.KindFailed, terminal[0].Status)
	require.Empty(t, terminal[0].DownloadURL)
}
