package config

// Redacted returns a flat view of the configuration safe for debug logging.
// Secrets are replaced with a fixed marker; empty secrets stay empty so the
// log still shows what was never provided.
func (c *Config) Redacted() map[string]string {
	redact := func(s string) string {
		if s == "" {
			return ""
		}
		return "[redacted]"
	}
	return map[string]string{
		"job.build_id":           c.Job.BuildID,
		"job.user_id":            c.Job.UserID,
		"job.build_type":         c.Job.BuildType,
		"job.provider":           c.Job.Provider,
		"source.url":             c.Source.URL,
		"webhook.url":            c.Webhook.URL,
		"webhook.secret":         redact(c.Webhook.Secret),
		"storage.backend":        c.Storage.Backend,
		"storage.endpoint":       c.Storage.Endpoint,
		"storage.bucket":         c.Storage.Bucket,
		"storage.access_key":     redact(c.Storage.AccessKey),
		"storage.secret_key":     redact(c.Storage.SecretKey),
		"storage.public_url":     c.Storage.PublicBaseURL,
		"signing.keystore_url":   c.Signing.KeystoreURL,
		"signing.store_password": redact(c.Signing.StorePassword),
		"signing.key_alias":      c.Signing.KeyAlias,
		"signing.key_password":   redact(c.Signing.KeyPassword),
		"build.tool":             c.Build.Tool,
		"workspace":              c.Workspace,
	}
}
