package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/buildrunner/internal/job"
)

// Validate checks that the assembled configuration describes a runnable job.
// All problems are collected so the operator sees everything at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Job.BuildID == "" {
		problems = append(problems, "job: build_id is required (BUILD_ID)")
	}
	if c.Job.UserID == "" {
		problems = append(problems, "job: user_id is required (USER_ID)")
	}
	bt, known := job.BuildTypeFromString(c.Job.BuildType)
	if !known {
		problems = append(problems, fmt.Sprintf("job: unknown build_type %q (expected debug-apk, release-apk or release-aab)", c.Job.BuildType))
	}

	if c.Source.URL == "" {
		problems = append(problems, "source: url is required (PROJECT_URL)")
	}

	if c.Webhook.URL == "" {
		problems = append(problems, "webhook: url is required (WEBHOOK_URL)")
	}

	switch c.Storage.Backend {
	case "s3":
		if c.Storage.Bucket == "" {
			problems = append(problems, "storage: bucket is required (STORAGE_BUCKET)")
		}
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			problems = append(problems, "storage: access_key and secret_key are required for the s3 backend")
		}
	case "fs":
		if c.Storage.FSRoot == "" {
			problems = append(problems, "storage: fs_root is required for the fs backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("storage: unknown backend %q (expected s3 or fs)", c.Storage.Backend))
	}
	if c.Storage.PublicBaseURL == "" {
		problems = append(problems, "storage: public_base_url is required (STORAGE_PUBLIC_URL)")
	}

	if known && bt.IsRelease() {
		if c.Signing.KeystoreURL == "" {
			problems = append(problems, "signing: keystore_url is required for release builds (KEYSTORE_URL)")
		}
		if c.Signing.StorePassword == "" {
			problems = append(problems, "signing: store_password is required for release builds (KEYSTORE_PASSWORD)")
		}
		if c.Signing.KeyAlias == "" {
			problems = append(problems, "signing: key_alias is required for release builds (KEY_ALIAS)")
		}
		if c.Signing.KeyPassword == "" {
			problems = append(problems, "signing: key_password is required for release builds (KEY_PASSWORD)")
		}
	}

	if c.Events.Enabled && c.Events.NATSURL == "" {
		problems = append(problems, "events: nats_url is required when events are enabled (NATS_URL)")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}
