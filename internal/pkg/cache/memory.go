package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// memoryCache is a mutex-guarded map with a hard entry cap. When the cap
// is reached, expired entries are swept first; if the map is still full
// the oldest entry is evicted. Postal codes are low-cardinality, so the
// cap is rarely hit in practice, but it keeps a scan of the quote
// endpoint from growing the process without bound.
type memoryCache struct {
	mu          sync.Mutex
	entries     map[string]memoryEntry
	maxEntries  int
	defaultTTL  time.Duration
	serviceName string
	now         func() time.Time
}

// NewMemoryCache returns a bounded in-process Cache. maxEntries must be
// positive; defaultTTL applies when Set is called with a zero ttl.
func NewMemoryCache(serviceName string, maxEntries int, defaultTTL time.Duration) Cache {
	return &memoryCache{
		entries:     make(map[string]memoryEntry),
		maxEntries:  maxEntries,
		defaultTTL:  defaultTTL,
		serviceName: serviceName,
		now:         time.Now,
	}
}

func (m *memoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.evictLocked()
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", nil
	}
	if m.now().After(entry.expiresAt) {
		delete(m.entries, key)
		return "", nil
	}
	return entry.value, nil
}

func (m *memoryCache) GenerateKey(operation, key string) string {
	return generateKey(m.serviceName, operation, key)
}

// evictLocked drops expired entries, then the entry closest to expiry if
// the map is still at capacity. Caller must hold mu.
func (m *memoryCache) evictLocked() {
	now := m.now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	if len(m.entries) < m.maxEntries {
		return
	}

	var oldestKey string
	var oldestExpiry time.Time
	for k, e := range m.entries {
		if oldestKey == "" || e.expiresAt.Before(oldestExpiry) {
			oldestKey = k
			oldestExpiry = e.expiresAt
		}
	}
	delete(m.entries, oldestKey)
}
