package locate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.home.luguber.info/inful/buildrunner/internal/job"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("binary"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestArtifactFindsMatch(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, "build/app/outputs/apk/debug/app-debug.apk"))

	got, err := Artifact(project, "build/app/outputs/apk/debug", job.BuildTypeDebugAPK)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(got, "app-debug.apk") {
		t.Fatalf("unexpected artifact %s", got)
	}
}

// TestArtifactSubtreeRestriction: files outside the build type's subtree must
// not satisfy the search.
func TestArtifactSubtreeRestriction(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, "build/app/outputs/apk/debug/app-debug.apk"))

	if _, err := Artifact(project, "build/app/outputs/apk/release", job.BuildTypeReleaseAPK); err == nil {
		t.Fatalf("expected miss when only a debug artifact exists")
	}
}

func TestArtifactExtensionRestriction(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, "build/app/outputs/bundle/release/notes.txt"))

	if _, err := Artifact(project, "build/app/outputs/bundle/release", job.BuildTypeReleaseAAB); err == nil {
		t.Fatalf("expected miss for wrong extension")
	}

	writeFile(t, filepath.Join(project, "build/app/outputs/bundle/release/app-release.aab"))
	got, err := Artifact(project, "build/app/outputs/bundle/release", job.BuildTypeReleaseAAB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(got, ".aab") {
		t.Fatalf("unexpected artifact %s", got)
	}
}

func TestArtifactNotFoundMessage(t *testing.T) {
	project := t.TempDir()
	_, err := Artifact(project, "build/app/outputs/apk/debug", job.BuildTypeDebugAPK)
	if err == nil {
		t.Fatalf("expected error for empty tree")
	}
	if !strings.Contains(err.Error(), ErrArtifactNotFound) {
		t.Fatalf("expected %q in error, got %v", ErrArtifactNotFound, err)
	}
}
