// Package config loads and validates the build job configuration from
// environment variables, optional .env files, and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the immutable job configuration. It is assembled once in Load and
// passed to every pipeline step; steps never read ambient environment state.
type Config struct {
	Job     JobConfig     `yaml:"job"`
	Source  SourceConfig  `yaml:"source"`
	Webhook WebhookConfig `yaml:"webhook"`
	Storage StorageConfig `yaml:"storage"`
	Signing SigningConfig `yaml:"signing"`
	Build   BuildConfig   `yaml:"build"`
	Events  EventsConfig  `yaml:"events"`
	Metrics MetricsConfig `yaml:"metrics"`

	// Workspace is the working directory for the job: project sources,
	// log files, and the local event journal all live under it.
	Workspace string `yaml:"workspace"`
}

// JobConfig identifies the build job.
type JobConfig struct {
	BuildID   string `yaml:"build_id"`
	UserID    string `yaml:"user_id"`
	BuildType string `yaml:"build_type"` // debug-apk | release-apk | release-aab
	Provider  string `yaml:"provider"`   // CI provider name for in_progress reports
	RunID     string `yaml:"run_id"`     // CI run identifier; generated when empty
}

// SourceConfig describes where the project sources come from. URLs ending in
// .git are cloned; anything else is downloaded and extracted as an archive.
type SourceConfig struct {
	URL       string `yaml:"url"`
	GitBranch string `yaml:"git_branch,omitempty"`
	GitDepth  int    `yaml:"git_depth,omitempty"`
}

// WebhookConfig describes the status reporting endpoint.
type WebhookConfig struct {
	URL     string        `yaml:"url"`
	Secret  string        `yaml:"secret"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// StorageConfig describes the object store receiving artifacts and logs.
type StorageConfig struct {
	Backend       string `yaml:"backend"` // "s3" or "fs"
	Endpoint      string `yaml:"endpoint,omitempty"`
	Region        string `yaml:"region,omitempty"`
	Bucket        string `yaml:"bucket"`
	AccessKey     string `yaml:"access_key,omitempty"`
	SecretKey     string `yaml:"secret_key,omitempty"`
	PublicBaseURL string `yaml:"public_base_url"`
	FSRoot        string `yaml:"fs_root,omitempty"` // backend=fs only
}

// SigningConfig carries release signing inputs. Only consulted for release
// build types.
type SigningConfig struct {
	KeystoreURL   string `yaml:"keystore_url,omitempty"`
	StorePassword string `yaml:"store_password,omitempty"`
	KeyAlias      string `yaml:"key_alias,omitempty"`
	KeyPassword   string `yaml:"key_password,omitempty"`

	// KeystorePath and DescriptorPath are relative to the project directory.
	KeystorePath   string `yaml:"keystore_path,omitempty"`
	DescriptorPath string `yaml:"descriptor_path,omitempty"`
}

// BuildConfig describes the toolchain invocations and where their outputs land.
type BuildConfig struct {
	Tool           string   `yaml:"tool,omitempty"`
	InstallArgs    []string `yaml:"install_args,omitempty"`
	DebugAPKArgs   []string `yaml:"debug_apk_args,omitempty"`
	ReleaseAPKArgs []string `yaml:"release_apk_args,omitempty"`
	ReleaseAABArgs []string `yaml:"release_aab_args,omitempty"`

	// Output roots relative to the project directory, one subtree per build type.
	DebugAPKDir   string `yaml:"debug_apk_dir,omitempty"`
	ReleaseAPKDir string `yaml:"release_apk_dir,omitempty"`
	ReleaseAABDir string `yaml:"release_aab_dir,omitempty"`

	// StreamLogs enables live log_update reporting while the build runs.
	StreamLogs bool `yaml:"stream_logs,omitempty"`
}

// EventsConfig configures the optional NATS status mirror.
type EventsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	NATSURL       string `yaml:"nats_url,omitempty"`
	SubjectPrefix string `yaml:"subject_prefix,omitempty"`
}

// MetricsConfig configures the optional Prometheus exposition listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen,omitempty"`
}

// Load assembles the configuration: .env files first, then the optional YAML
// file (with environment expansion), then direct environment overrides,
// then defaults. The YAML path may be empty.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InstallCommand returns the dependency-install argv (tool + args).
func (c *Config) InstallCommand() []string {
	return append([]string{c.Build.Tool}, c.Build.InstallArgs...)
}

// BuildCommand returns the compilation argv for the given build type.
func (c *Config) BuildCommand(buildType string) []string {
	var args []string
	switch buildType {
	case "release-apk":
		args = c.Build.ReleaseAPKArgs
	case "release-aab":
		args = c.Build.ReleaseAABArgs
	default:
		args = c.Build.DebugAPKArgs
	}
	return append([]string{c.Build.Tool}, args...)
}

// OutputDir returns the output subtree (relative to the project directory)
// searched for the given build type's artifact.
func (c *Config) OutputDir(buildType string) string {
	switch buildType {
	case "release-apk":
		return c.Build.ReleaseAPKDir
	case "release-aab":
		return c.Build.ReleaseAABDir
	default:
		return c.Build.DebugAPKDir
	}
}
