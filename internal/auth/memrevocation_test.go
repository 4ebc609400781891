package auth

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRevocations(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryRevocations()
	m.now = func() time.Time { return now }

	if err := m.Revoke(ctx, "short", now.Add(time.Minute)); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if err := m.Revoke(ctx, "long", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if ok, _ := m.IsRevoked(ctx, "short"); !ok {
		t.Error("IsRevoked(short) = false, want true")
	}
	if ok, _ := m.IsRevoked(ctx, "other"); ok {
		t.Error("IsRevoked(other) = true, want false")
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := m.IsRevoked(ctx, "short"); ok {
		t.Error("IsRevoked(short) after expiry = true, want false")
	}
	if err := m.Revoke(ctx, "third", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if _, kept := m.entries["short"]; kept {
		t.Error("expired entry not pruned")
	}
	if ok, _ := m.IsRevoked(ctx, "long"); !ok {
		t.Error("IsRevoked(long) = false, want true")
	}
}
