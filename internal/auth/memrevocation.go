package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryRevocations is a RevocationStore for single-process runs. Entries
// past their expiry are pruned on every write.
type MemoryRevocations struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{entries: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryRevocations) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for t, exp := range m.entries {
		if !exp.After(now) {
			delete(m.entries, t)
		}
	}
	m.entries[token] = expiresAt
	return nil
}

func (m *MemoryRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.entries[token]
	return ok && exp.After(m.now()), nil
}
