// Package status defines the webhook payload types and the reporters that
// deliver them. Reporting is advisory: delivery failures never change the
// outcome of a job.
package status

import (
	"git.home.luguber.info/inful/buildrunner/internal/job"
)

// Kind enumerates the webhook status values.
type Kind string

const (
	KindLogUpdate  Kind = "log_update"
	KindInProgress Kind = "in_progress"
	KindComplete   Kind = "complete"
	KindFailed     Kind = "failed"
)

// Terminal reports whether the status kind ends the job.
func (k Kind) Terminal() bool { return k == KindComplete || k == KindFailed }

// Payload is the webhook message body. Serialization goes through
// encoding/json; nothing here is ever string-concatenated into JSON.
type Payload struct {
	BuildID string `json:"buildId"`
	UserID  string `json:"userId"`
	Status  Kind   `json:"status"`

	// log_update
	Message string `json:"message,omitempty"`

	// in_progress
	Provider string `json:"provider,omitempty"`
	RunID    string `json:"runId,omitempty"`

	// complete and failed
	Duration *int64 `json:"duration,omitempty"`

	// complete
	DownloadURL string `json:"downloadUrl,omitempty"`

	// failed
	LogURL     string `json:"logUrl,omitempty"`
	LogSnippet string `json:"logSnippet,omitempty"`
}

func base(j *job.Job, kind Kind) Payload {
	return Payload{BuildID: j.BuildID, UserID: j.UserID, Status: kind}
}

// LogUpdate builds a free-text progress message.
func LogUpdate(j *job.Job, message string) Payload {
	p := base(j, KindLogUpdate)
	p.Message = message
	return p
}

// InProgress announces that the job has started running.
func InProgress(j *job.Job, provider, runID string) Payload {
	p := base(j, KindInProgress)
	p.Provider = provider
	p.RunID = runID
	return p
}

// Complete is the successful terminal payload.
func Complete(j *job.Job, downloadURL string) Payload {
	p := base(j, KindComplete)
	d := j.Duration()
	p.Duration = &d
	p.DownloadURL = downloadURL
	return p
}

// Failed is the failure terminal payload. logURL may be empty when the log
// upload itself failed.
func Failed(j *job.Job, logURL, logSnippet string) Payload {
	p := base(j, KindFailed)
	d := j.Duration()
	p.Duration = &d
	p.LogURL = logURL
	p.LogSnippet = logSnippet
	return p
}
