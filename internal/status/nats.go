package status

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSReporter mirrors every status payload onto a JetStream subject so other
// services can follow build progress without polling the webhook receiver.
// Like the webhook, it is advisory.
type NATSReporter struct {
	conn          *nats.Conn
	js            jetstream.JetStream
	subjectPrefix string
}

// NewNATSReporter connects to NATS and prepares a JetStream context.
func NewNATSReporter(natsURL, subjectPrefix string) (*NATSReporter, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	slog.Info("NATS status mirror initialized", "url", natsURL, "subject_prefix", subjectPrefix)
	return &NATSReporter{conn: conn, js: js, subjectPrefix: subjectPrefix}, nil
}

// Report publishes the payload to {prefix}.{userId}.{buildId}.
func (r *NATSReporter) Report(ctx context.Context, p Payload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode status payload: %w", err)
	}
	subject := fmt.Sprintf("%s.%s.%s", r.subjectPrefix, p.UserID, p.BuildID)
	if _, err := r.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publish status to %s: %w", subject, err)
	}
	return nil
}

// Close drains the connection.
func (r *NATSReporter) Close() error {
	if r.conn != nil {
		r.conn.Close()
	}
	return nil
}
