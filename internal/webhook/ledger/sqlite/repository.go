// Package sqlite provides a SQLite-backed implementation of
// ledger.Ledger, so notification marks survive process restarts and the
// provider's multi-day callback retry window cannot re-trigger sends.
//
// WAL mode is enabled on Open so the webhook worker's writes never block
// a concurrent read from the debug endpoint.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/materialespayan/storefront-backend/internal/webhook/ledger"

	// Register the pure-Go SQLite driver. modernc.org/sqlite avoids CGO,
	// which keeps the Docker build on Alpine simple.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS notified_payments (
    -- Provider payment id. One row per payment that triggered sends.
    payment_id  TEXT PRIMARY KEY,

    -- RFC3339 timestamp of the first (and only) notification dispatch.
    notified_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS webhook_events (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    topic       TEXT NOT NULL DEFAULT '',
    payment_id  TEXT NOT NULL DEFAULT '',

    -- Callback payload verbatim, for the debug endpoint.
    raw         TEXT NOT NULL DEFAULT '',

    -- W3C trace_id of the request that delivered the callback, so a
    -- stored event can be joined with its trace.
    trace_id    TEXT NOT NULL DEFAULT '',

    received_at TEXT NOT NULL
);
`

// Repository is the SQLite implementation of ledger.Ledger.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	// _pragma query parameters configure connection state for the
	// modernc driver. busy_timeout waits for locks instead of failing.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) AlreadyNotified(ctx context.Context, paymentID string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM notified_payments WHERE payment_id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, q, paymentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("sqlite: check notified %q: %w", paymentID, err)
	}
	return exists, nil
}

func (r *Repository) MarkNotified(ctx context.Context, paymentID string) error {
	const q = `INSERT OR IGNORE INTO notified_payments (payment_id, notified_at) VALUES (?, ?)`

	if _, err := r.db.ExecContext(ctx, q, paymentID, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("sqlite: mark notified %q: %w", paymentID, err)
	}
	return nil
}

func (r *Repository) SaveLastEvent(ctx context.Context, event *ledger.Event) error {
	const q = `
		INSERT INTO webhook_events (topic, payment_id, raw, trace_id, received_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		event.Topic,
		event.PaymentID,
		event.Raw,
		event.TraceID,
		event.ReceivedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save webhook event: %w", err)
	}
	return nil
}

func (r *Repository) LastEvent(ctx context.Context) (*ledger.Event, error) {
	const q = `
		SELECT topic, payment_id, raw, trace_id, received_at
		FROM   webhook_events
		ORDER  BY id DESC
		LIMIT  1`

	var event ledger.Event
	var receivedAt string
	err := r.db.QueryRowContext(ctx, q).Scan(
		&event.Topic,
		&event.PaymentID,
		&event.Raw,
		&event.TraceID,
		&receivedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load last webhook event: %w", err)
	}

	event.ReceivedAt, err = time.Parse(time.RFC3339Nano, receivedAt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: parse received_at %q: %w", receivedAt, err)
	}
	return &event, nil
}
