package fetch

import (
	"context"
	"log/slog"
	"os"

	runerr "git.home.luguber.info/inful/buildrunner/internal/errors"
	"git.home.luguber.info/inful/buildrunner/internal/logfields"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// clone checks the project out from a git remote instead of an archive.
func (f *Fetcher) clone(ctx context.Context, url, branch string, depth int, dest string) (string, error) {
	slog.Info("Cloning project repository", logfields.URL(url), slog.String("branch", branch))

	cloneOptions := &git.CloneOptions{URL: url, Progress: os.Stdout}
	if branch != "" {
		cloneOptions.ReferenceName = plumbing.ReferenceName("refs/heads/" + branch)
		cloneOptions.SingleBranch = true
	}
	if depth > 0 {
		cloneOptions.Depth = depth
	}

	if _, err := git.PlainCloneContext(ctx, dest, false, cloneOptions); err != nil {
		return "", runerr.FetchError(err, "failed to clone project repository")
	}
	slog.Info("Project sources ready", logfields.Path(dest))
	return dest, nil
}
