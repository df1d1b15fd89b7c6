// Package ledger tracks which payments have already triggered
// notifications and keeps the most recent webhook for diagnostics.
//
// The provider delivers callbacks at least once; without this ledger a
// redelivered "approved" callback would message the customer twice.
package ledger

import (
	"context"
	"time"
)

// Event is a snapshot of one received webhook, stored for the debug
// endpoint. Raw holds the callback body (or query string) verbatim.
type Event struct {
	Topic      string    `json:"topic"`
	PaymentID  string    `json:"paymentId"`
	Raw        string    `json:"raw,omitempty"`
	TraceID    string    `json:"traceId,omitempty"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// Ledger is the port the webhook worker depends on. Implementations:
// in-memory (default) and SQLite (survives restarts).
type Ledger interface {
	// AlreadyNotified reports whether notifications were sent for this
	// payment id.
	AlreadyNotified(ctx context.Context, paymentID string) (bool, error)
	// MarkNotified records that notifications went out. Marking the same
	// id twice is a no-op.
	MarkNotified(ctx context.Context, paymentID string) error
	// SaveLastEvent overwrites the diagnostic slot with this event.
	SaveLastEvent(ctx context.Context, event *Event) error
	// LastEvent returns the most recent event, or nil when none was
	// received since startup (or ever, for persistent backends).
	LastEvent(ctx context.Context) (*Event, error)
}
