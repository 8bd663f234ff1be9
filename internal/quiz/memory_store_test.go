package quiz

import (
	"context"
	"errors"
	"testing"
	"time"
)

func storedTestSession() *Session {
	return NewSession("user-1", "Science", testQuestions())
}

func TestMemoryStoreCreateAndGetCopies(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	session := storedTestSession()

	if err := store.Create(context.Background(), session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	session.Score = 99
	session.Answers[0] = 3

	loaded, err := store.Get(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded.Score != 0 || len(loaded.Answers) != 0 {
		t.Fatalf("store shares state with caller: score=%d answers=%d", loaded.Score, len(loaded.Answers))
	}

	// Same the other way: mutating a loaded copy must not change the store.
	loaded.Answers[0] = 1
	again, err := store.Get(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if len(again.Answers) != 0 {
		t.Fatalf("loaded copy aliases store state")
	}
}

func TestMemoryStoreCreateRejectsDuplicateID(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	session := storedTestSession()

	if err := store.Create(context.Background(), session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Create(context.Background(), session); err == nil {
		t.Fatalf("expected duplicate id rejection")
	}
}

func TestMemoryStoreCompareAndSwap(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	session := storedTestSession()
	if err := store.Create(context.Background(), session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	advanced := session.Clone()
	advanced.CurrentIndex = 1
	advanced.Score = 1

	if err := store.CompareAndSwap(context.Background(), 0, advanced); err != nil {
		t.Fatalf("CompareAndSwap failed: %v", err)
	}

	// A second swap from the stale version must conflict.
	stale := session.Clone()
	stale.CurrentIndex = 1
	if err := store.CompareAndSwap(context.Background(), 0, stale); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	loaded, err := store.Get(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded.CurrentIndex != 1 || loaded.Score != 1 {
		t.Fatalf("stored state = index %d score %d, want 1/1", loaded.CurrentIndex, loaded.Score)
	}
}

func TestMemoryStoreCompareAndSwapMissingSession(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	session := storedTestSession()

	if err := store.CompareAndSwap(context.Background(), 0, session); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMemoryStoreExpiresIdleSessions(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	session := storedTestSession()
	if err := store.Create(context.Background(), session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	now := session.LastActivityAt
	store.now = func() time.Time { return now.Add(2 * time.Minute) }

	if _, err := store.Get(context.Background(), session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expired session to read as not found, got %v", err)
	}

	// The eviction on read is final: rolling time back must not resurrect it.
	store.now = time.Now
	if _, err := store.Get(context.Background(), session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected evicted session to stay gone, got %v", err)
	}
}

func TestMemoryStoreCompareAndSwapAgainstExpiredSession(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	session := storedTestSession()
	if err := store.Create(context.Background(), session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	store.now = func() time.Time { return session.LastActivityAt.Add(time.Hour) }

	advanced := session.Clone()
	advanced.CurrentIndex = 1
	if err := store.CompareAndSwap(context.Background(), 0, advanced); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound against expired session, got %v", err)
	}
}

func TestMemoryStoreEvictExpired(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	fresh := storedTestSession()
	idle := storedTestSession()
	idle.LastActivityAt = idle.LastActivityAt.Add(-time.Hour)

	if err := store.Create(context.Background(), fresh); err != nil {
		t.Fatalf("Create fresh failed: %v", err)
	}
	if err := store.Create(context.Background(), idle); err != nil {
		t.Fatalf("Create idle failed: %v", err)
	}

	evicted, err := store.EvictExpired(context.Background())
	if err != nil {
		t.Fatalf("EvictExpired failed: %v", err)
	}
	if evicted != 1 {
		t.Fatalf("evicted %d sessions, want 1", evicted)
	}
	if store.Len() != 1 {
		t.Fatalf("store holds %d sessions, want 1", store.Len())
	}
	if _, err := store.Get(context.Background(), fresh.ID); err != nil {
		t.Fatalf("fresh session should survive the sweep: %v", err)
	}
}
