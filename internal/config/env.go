package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads environment variables from .env/.env.local if present.
// Existing process environment variables are not overwritten.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", envPath)
			return
		}
	}
}

// applyEnvOverrides applies the recognized environment variables on top of
// whatever the YAML file provided. Environment wins over file.
func applyEnvOverrides(cfg *Config) {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setStr(&cfg.Job.BuildID, "BUILD_ID")
	setStr(&cfg.Job.UserID, "USER_ID")
	setStr(&cfg.Job.BuildType, "BUILD_TYPE")
	setStr(&cfg.Job.Provider, "CI_PROVIDER")
	setStr(&cfg.Job.RunID, "CI_RUN_ID")

	setStr(&cfg.Source.URL, "PROJECT_URL")
	setStr(&cfg.Source.GitBranch, "PROJECT_BRANCH")
	if v := os.Getenv("PROJECT_GIT_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Source.GitDepth = n
		}
	}

	setStr(&cfg.Webhook.URL, "WEBHOOK_URL")
	setStr(&cfg.Webhook.Secret, "WEBHOOK_SECRET")
	if v := os.Getenv("WEBHOOK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Webhook.Timeout = d
		}
	}

	setStr(&cfg.Storage.Backend, "STORAGE_BACKEND")
	setStr(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setStr(&cfg.Storage.Region, "STORAGE_REGION")
	setStr(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	setStr(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setStr(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setStr(&cfg.Storage.PublicBaseURL, "STORAGE_PUBLIC_URL")
	setStr(&cfg.Storage.FSRoot, "STORAGE_FS_ROOT")

	setStr(&cfg.Signing.KeystoreURL, "KEYSTORE_URL")
	setStr(&cfg.Signing.StorePassword, "KEYSTORE_PASSWORD")
	setStr(&cfg.Signing.KeyAlias, "KEY_ALIAS")
	setStr(&cfg.Signing.KeyPassword, "KEY_PASSWORD")

	setStr(&cfg.Workspace, "WORKSPACE_DIR")

	setStr(&cfg.Events.NATSURL, "NATS_URL")
	if os.Getenv("NATS_URL") != "" {
		cfg.Events.Enabled = true
	}
}
