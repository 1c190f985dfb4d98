package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FSStore is a filesystem-backed ObjectStore used for local runs and tests.
// Keys map directly to paths under the root directory.
type FSStore struct {
	root          string
	publicBaseURL string
	mu            sync.Mutex
}

// NewFSStore creates a filesystem store rooted at root.
func NewFSStore(root, publicBaseURL string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, fmt.Errorf("create store root %s: %w", root, err)
	}
	return &FSStore{root: root, publicBaseURL: publicBaseURL}, nil
}

// Upload writes the object to {root}/{key}.
func (fs *FSStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	target, err := fs.objectPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create object %s: %w", key, err)
	}
	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		return fmt.Errorf("write object %s: %w", key, err)
	}
	return out.Close()
}

// PublicURL derives the download URL by concatenating the configured base.
func (fs *FSStore) PublicURL(key string) string {
	return joinURL(fs.publicBaseURL, key)
}

// Close is a no-op.
func (fs *FSStore) Close() error { return nil }

// ObjectPath exposes the filesystem location for a key; tests use it to
// assert upload contents.
func (fs *FSStore) ObjectPath(key string) string {
	p, _ := fs.objectPath(key)
	return p
}

func (fs *FSStore) objectPath(key string) (string, error) {
	target := filepath.Join(fs.root, filepath.Clean(key))
	if !strings.HasPrefix(target, filepath.Clean(fs.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("object key %q escapes store root", key)
	}
	return target, nil
}
