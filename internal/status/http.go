package status

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	runerr "git.home.luguber.info/inful/buildrunner/internal/errors"
)

// SecretHeader carries the shared webhook secret.
const SecretHeader = "X-Webhook-Secret"

// HTTPReporter posts payloads to the webhook endpoint. No retries, no
// backoff, no queuing: one POST per payload.
type HTTPReporter struct {
	url    string
	secret string
	client *http.Client
}

// NewHTTPReporter creates a reporter for the given webhook URL. A timeout of
// zero falls back to 10s so an unresponsive webhook cannot stall the job.
func NewHTTPReporter(url, secret string, timeout time.Duration) *HTTPReporter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPReporter{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: timeout},
	}
}

// Report POSTs the payload as JSON. Non-2xx responses are errors.
func (r *HTTPReporter) Report(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return runerr.WebhookError(err, "encode status payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return runerr.WebhookError(err, "build status request")
	}
	req.Header.Set("Content-Type", "application/json")
	if r.secret != "" {
		req.Header.Set(SecretHeader, r.secret)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return runerr.WebhookError(err, "post status")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return runerr.WebhookError(fmt.Errorf("webhook returned %s", resp.Status), "post status")
	}
	return nil
}

// Close is a no-op; the underlying client needs no teardown.
func (r *HTTPReporter) Close() error { return nil }
