package ledger

import (
	"context"
	"sync"
)

// memoryLedger keeps everything in process memory. Notification marks
// are lost on restart, which matches the provider's retry window well
// enough for a single-instance deployment; use the SQLite backend when
// duplicates across restarts matter.
type memoryLedger struct {
	mu       sync.Mutex
	notified map[string]struct{}
	last     *Event
}

func NewMemory() Ledger {
	return &memoryLedger{notified: make(map[string]struct{})}
}

func (m *memoryLedger) AlreadyNotified(_ context.Context, paymentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.notified[paymentID]
	return ok, nil
}

func (m *memoryLedger) MarkNotified(_ context.Context, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notified[paymentID] = struct{}{}
	return nil
}

func (m *memoryLedger) SaveLastEvent(_ context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = event
	return nil
}

func (m *memoryLedger) LastEvent(context.Context) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, nil
}
