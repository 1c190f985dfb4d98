package config

import "time"

// Toolchain and layout defaults. Commands follow the Flutter CLI; output
// subtrees follow the Gradle convention so each build type maps to exactly
// one directory.
const (
	defaultTool          = "flutter"
	defaultDebugAPKDir   = "build/app/outputs/apk/debug"
	defaultReleaseAPKDir = "build/app/outputs/apk/release"
	defaultReleaseAABDir = "build/app/outputs/bundle/release"

	defaultKeystorePath   = "android/upload-keystore.jks"
	defaultDescriptorPath = "android/signing.json"

	defaultWebhookTimeout = 10 * time.Second
	defaultWorkspace      = "/tmp/buildrunner"
	defaultProvider       = "buildrunner"
	defaultSubjectPrefix  = "ci.builds"
	defaultMetricsListen  = ":9090"
)

func applyDefaults(cfg *Config) {
	if cfg.Workspace == "" {
		cfg.Workspace = defaultWorkspace
	}
	if cfg.Job.Provider == "" {
		cfg.Job.Provider = defaultProvider
	}

	if cfg.Webhook.Timeout <= 0 {
		cfg.Webhook.Timeout = defaultWebhookTimeout
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "s3"
	}

	if cfg.Signing.KeystorePath == "" {
		cfg.Signing.KeystorePath = defaultKeystorePath
	}
	if cfg.Signing.DescriptorPath == "" {
		cfg.Signing.DescriptorPath = defaultDescriptorPath
	}

	if cfg.Build.Tool == "" {
		cfg.Build.Tool = defaultTool
	}
	if len(cfg.Build.InstallArgs) == 0 {
		cfg.Build.InstallArgs = []string{"pub", "get"}
	}
	if len(cfg.Build.DebugAPKArgs) == 0 {
		cfg.Build.DebugAPKArgs = []string{"build", "apk", "--debug"}
	}
	if len(cfg.Build.ReleaseAPKArgs) == 0 {
		cfg.Build.ReleaseAPKArgs = []string{"build", "apk", "--release"}
	}
	if len(cfg.Build.ReleaseAABArgs) == 0 {
		cfg.Build.ReleaseAABArgs = []string{"build", "appbundle", "--release"}
	}
	if cfg.Build.DebugAPKDir == "" {
		cfg.Build.DebugAPKDir = defaultDebugAPKDir
	}
	if cfg.Build.ReleaseAPKDir == "" {
		cfg.Build.ReleaseAPKDir = defaultReleaseAPKDir
	}
	if cfg.Build.ReleaseAABDir == "" {
		cfg.Build.ReleaseAABDir = defaultReleaseAABDir
	}

	if cfg.Events.SubjectPrefix == "" {
		cfg.Events.SubjectPrefix = defaultSubjectPrefix
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = defaultMetricsListen
	}
}
