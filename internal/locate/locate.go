// Package locate finds the compiled artifact in the build-type output
// subtree. Existence is the only check performed; content verification is
// the toolchain's job.
package locate

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	runerr "git.home.luguber.info/inful/buildrunner/internal/errors"
	"git.home.luguber.info/inful/buildrunner/internal/job"
	"git.home.luguber.info/inful/buildrunner/internal/logfields"
)

// ErrArtifactNotFound is the message reported when no matching file exists
// after compilation. The wording is part of the failure contract.
const ErrArtifactNotFound = "Build artifact not found"

// Artifact searches outputDir for the first file matching the build type's
// extension and returns its absolute path. Exactly one subtree is searched
// per build type; a miss is fatal for the job.
func Artifact(projectDir, outputDir string, buildType job.BuildType) (string, error) {
	root := filepath.Join(projectDir, outputDir)
	ext := "." + buildType.ArtifactExt()

	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A missing output tree is the same failure as a missing file.
			return fs.SkipAll
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ext) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", runerr.ArtifactError(ErrArtifactNotFound).WithContext("search_dir", root)
	}
	if found == "" {
		slog.Error("No artifact found", logfields.BuildType(string(buildType)), logfields.Path(root))
		return "", runerr.ArtifactError(ErrArtifactNotFound).WithContext("search_dir", root)
	}
	slog.Info("Artifact located", logfields.Path(found))
	return found, nil
}
