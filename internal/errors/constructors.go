package errors

// ConfigError creates a fatal configuration error.
func ConfigError(message string) *RunnerError {
	return New(CategoryConfig, SeverityFatal, message)
}

// ValidationError creates a non-fatal validation error.
func ValidationError(message string) *RunnerError {
	return New(CategoryValidation, SeverityWarning, message)
}

// FetchError wraps a source fetch failure.
func FetchError(err error, message string) *RunnerError {
	return Wrap(err, CategoryFetch, SeverityFatal, message)
}

// SigningError wraps a signing configuration failure.
func SigningError(err error, message string) *RunnerError {
	return Wrap(err, CategorySigning, SeverityFatal, message)
}

// BuildError wraps a toolchain invocation failure.
func BuildError(err error, message string) *RunnerError {
	return Wrap(err, CategoryBuild, SeverityFatal, message)
}

// ArtifactError creates an artifact location failure.
func ArtifactError(message string) *RunnerError {
	return New(CategoryArtifact, SeverityFatal, message)
}

// StorageError wraps an object storage failure.
func StorageError(err error, message string) *RunnerError {
	return Wrap(err, CategoryStorage, SeverityFatal, message)
}

// WebhookError wraps an advisory status reporting failure. Callers log and
// continue; the severity reflects that.
func WebhookError(err error, message string) *RunnerError {
	return Wrap(err, CategoryWebhook, SeverityWarning, message)
}
