// Package storage pushes build artifacts and logs to an object store under
// deterministic keys and derives their public download URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/buildrunner/internal/config"
)

// ObjectStore uploads objects by key. Uploads either fully succeed or return
// an error; no post-upload integrity check is performed.
type ObjectStore interface {
	// Upload writes body to the object identified by key.
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error

	// PublicURL derives the public download URL for a key.
	PublicURL(key string) string

	// Close releases any resources held by the store.
	Close() error
}

// New constructs the configured store backend.
func New(cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3Store(cfg)
	case "fs":
		return NewFSStore(cfg.FSRoot, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// joinURL concatenates the public base URL and key with exactly one slash.
func joinURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(key, "/")
}

// ContentTypeFor returns the MIME type for an artifact or log key.
func ContentTypeFor(key string) string {
	switch {
	case strings.HasSuffix(key, ".apk"):
		return "application/vnd.android.package-archive"
	case strings.HasSuffix(key, ".aab"):
		return "application/octet-stream"
	case strings.HasSuffix(key, ".log"):
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
