// Package fetch obtains the project sources: either an archive downloaded
// over HTTP and extracted into the workspace, or a git clone for .git URLs.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	runerr "git.home.luguber.info/inful/buildrunner/internal/errors"
	"git.home.luguber.info/inful/buildrunner/internal/logfields"
)

// Fetcher downloads and unpacks project sources into the workspace.
type Fetcher struct {
	workspace string
	client    *http.Client
}

// NewFetcher creates a fetcher rooted at the given workspace directory.
func NewFetcher(workspace string) *Fetcher {
	return &Fetcher{workspace: workspace, client: http.DefaultClient}
}

// projectDirName is the fixed directory the sources land in.
const projectDirName = "project"

// Fetch retrieves the sources from url and returns the project directory.
// Any download, clone, or extraction failure is fatal for the job.
func (f *Fetcher) Fetch(ctx context.Context, url, gitBranch string, gitDepth int) (string, error) {
	dest := filepath.Join(f.workspace, projectDirName)
	if err := os.RemoveAll(dest); err != nil {
		return "", runerr.FetchError(err, "failed to clean project directory")
	}

	if strings.HasSuffix(url, ".git") {
		return f.clone(ctx, url, gitBranch, gitDepth, dest)
	}
	return f.downloadAndExtract(ctx, url, dest)
}

func (f *Fetcher) downloadAndExtract(ctx context.Context, url, dest string) (string, error) {
	slog.Info("Downloading project archive", logfields.URL(url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", runerr.FetchError(err, "failed to build download request")
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", runerr.FetchError(err, "failed to download project archive")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", runerr.FetchError(fmt.Errorf("server returned %s", resp.Status), "failed to download project archive")
	}

	archivePath := filepath.Join(f.workspace, "source"+archiveExt(url))
	out, err := os.Create(archivePath)
	if err != nil {
		return "", runerr.FetchError(err, "failed to create archive file")
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return "", runerr.FetchError(err, "failed to write archive file")
	}
	if err := out.Close(); err != nil {
		return "", runerr.FetchError(err, "failed to write archive file")
	}

	if err := extract(archivePath, dest); err != nil {
		return "", runerr.FetchError(err, "failed to extract project archive")
	}

	root, err := projectRoot(dest)
	if err != nil {
		return "", runerr.FetchError(err, "extracted archive is empty")
	}
	slog.Info("Project sources ready", logfields.Path(root))
	return root, nil
}

// archiveExt guesses the archive extension from the URL, defaulting to .zip.
func archiveExt(url string) string {
	trimmed := url
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	switch {
	case strings.HasSuffix(trimmed, ".tar.gz"), strings.HasSuffix(trimmed, ".tgz"):
		return ".tar.gz"
	default:
		return ".zip"
	}
}

// projectRoot returns dest, or the single top-level directory inside dest if
// the archive wrapped its contents the way forge-generated archives do.
func projectRoot(dest string) (string, error) {
	entries, err := os.ReadDir(dest)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no files extracted to %s", dest)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dest, entries[0].Name()), nil
	}
	return dest, nil
}
