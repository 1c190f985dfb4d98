// Package eventstore persists every emitted status payload locally. It is
// the job's durable trace on the runner host and the fallback record when
// the failure path itself cannot reach the webhook or object store.
package eventstore

import (
	"context"
	"time"
)

// Store defines the interface for persisting and retrieving status events.
type Store interface {
	// Append adds a new status event to the store.
	Append(ctx context.Context, buildID, userID, kind string, payload []byte) error

	// GetByBuildID retrieves all events for a specific build in append order.
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)

	// GetRange retrieves events within a time range.
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)

	// Close closes the store and releases resources.
	Close() error
}

// Event is one recorded status emission.
type Event struct {
	ID        int64
	BuildID   string
	UserID    string
	Kind      string
	Timestamp time.Time
	Payload   []byte
}
