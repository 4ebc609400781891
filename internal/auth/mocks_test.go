package auth

import (
	"context"
	"sync"
	"time"
)

// fakeRevocations implements RevocationStore in memory.
type fakeRevocations struct {
	mu      sync.Mutex
	entries map[string]time.Time
	err     error
}

func newFakeRevocations() *fakeRevocations {
	return &fakeRevocations{entries: make(map[string]time.Time)}
}

func (f *fakeRevocations) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries[token] = expiresAt
	return nil
}

func (f *fakeRevocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.entries[token]
	return ok, nil
}

// stubParser returns fixed claims for any token.
type stubParser struct {
	claims Claims
	err    error
}

func (s stubParser) Parse(token string) (Claims, error) {
	return s.claims, s.err
}
