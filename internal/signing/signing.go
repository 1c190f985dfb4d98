// Package signing prepares release signing inputs: it downloads the keystore
// and writes the signing descriptor the build toolchain consumes. Debug
// builds never touch this package.
package signing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/buildrunner/internal/config"
	runerr "git.home.luguber.info/inful/buildrunner/internal/errors"
	"git.home.luguber.info/inful/buildrunner/internal/job"
	"git.home.luguber.info/inful/buildrunner/internal/logfields"
)

// Descriptor is the serialized signing configuration read by the build
// toolchain. Keystore authenticity and password strength are not validated
// here; the toolchain reports credential problems itself.
type Descriptor struct {
	KeystorePath  string `json:"keystorePath"`
	StorePassword string `json:"storePassword"`
	KeyAlias      string `json:"keyAlias"`
	KeyPassword   string `json:"keyPassword"`
	PackagingType string `json:"packagingType"` // "apk" or "bundle"
}

// Configurator downloads keystores and writes signing descriptors.
type Configurator struct {
	client *http.Client
}

// NewConfigurator creates a signing configurator.
func NewConfigurator() *Configurator {
	return &Configurator{client: http.DefaultClient}
}

// Configure activates for release build types only: it fetches the keystore
// into the project tree and serializes the descriptor. For debug builds it
// does nothing and returns an empty path.
func (c *Configurator) Configure(ctx context.Context, cfg config.SigningConfig, buildType job.BuildType, projectDir string) (string, error) {
	if !buildType.IsRelease() {
		return "", nil
	}

	keystorePath := filepath.Join(projectDir, cfg.KeystorePath)
	if err := c.downloadKeystore(ctx, cfg.KeystoreURL, keystorePath); err != nil {
		return "", err
	}

	desc := Descriptor{
		KeystorePath:  keystorePath,
		StorePassword: cfg.StorePassword,
		KeyAlias:      cfg.KeyAlias,
		KeyPassword:   cfg.KeyPassword,
		PackagingType: buildType.PackagingType(),
	}

	descriptorPath := filepath.Join(projectDir, cfg.DescriptorPath)
	if err := writeDescriptor(desc, descriptorPath); err != nil {
		return "", err
	}

	slog.Info("Signing configuration written", logfields.Path(descriptorPath), slog.String("packaging_type", desc.PackagingType))
	return descriptorPath, nil
}

func (c *Configurator) downloadKeystore(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return runerr.SigningError(err, "failed to build keystore request")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return runerr.SigningError(err, "failed to download keystore")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return runerr.SigningError(fmt.Errorf("server returned %s", resp.Status), "failed to download keystore")
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return runerr.SigningError(err, "failed to create keystore directory")
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return runerr.SigningError(err, "failed to create keystore file")
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return runerr.SigningError(err, "failed to write keystore file")
	}
	return out.Close()
}

func writeDescriptor(desc Descriptor, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return runerr.SigningError(err, "failed to create descriptor directory")
	}
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return runerr.SigningError(err, "failed to encode signing descriptor")
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return runerr.SigningError(err, "failed to write signing descriptor")
	}
	return nil
}
