package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"geoquiz-service/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(time.Hour)

	if _, err := store.Load(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := store.Save(ctx, domain.SessionState{ID: "s1", BankID: "geography", Index: 4}); err != nil {
		t.Fatalf("save: %v", err)
	}
	state, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if state.Index != 4 || state.BankID != "geography" {
		t.Fatalf("unexpected state %+v", state)
	}

	_ = store.Delete(ctx, "s1")
	if store.Len() != 0 {
		t.Fatalf("expected session removed")
	}
}

func TestSessionStoreExpiresIdleSessions(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(time.Hour)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.clock = func() time.Time { return now }

	for _, id := range []string{"a", "b", "c"} {
		_ = store.Save(ctx, domain.SessionState{ID: id, BankID: "geography"})
	}

	now = now.Add(30 * time.Minute)
	// saving refreshes the deadline of "a" only
	_ = store.Save(ctx, domain.SessionState{ID: "a", BankID: "geography", Index: 1})

	now = now.Add(45 * time.Minute)
	if _, err := store.Load(ctx, "b"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected b expired, got %v", err)
	}
	state, err := store.Load(ctx, "a")
	if err != nil || state.Index != 1 {
		t.Fatalf("expected a alive at index 1, got %+v %v", state, err)
	}

	// a later save sweeps the expired entries out of the map
	_ = store.Save(ctx, domain.SessionState{ID: "d", BankID: "geography"})
	store.mu.RLock()
	held := len(store.sessions)
	store.mu.RUnlock()
	if held != 2 {
		t.Fatalf("expected a and d held after sweep, got %d", held)
	}

	now = now.Add(2 * time.Hour)
	if n := store.Len(); n != 0 {
		t.Fatalf("expected every session expired, got %d", n)
	}
}

func TestSessionStoreWithoutTTLKeepsSessions(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(0)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.clock = func() time.Time { return now }

	_ = store.Save(ctx, domain.SessionState{ID: "s1", BankID: "geography"})
	now = now.Add(24 * 365 * time.Hour)
	if _, err := store.Load(ctx, "s1"); err != nil {
		t.Fatalf("expected session kept, got %v", err)
	}
}
