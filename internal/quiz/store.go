package quiz

import (
	"context"
	"errors"
)

var (
	// ErrSessionNotFound covers both sessions that never existed and
	// sessions the store evicted after their idle TTL passed.
	ErrSessionNotFound = errors.New("session not found")

	// ErrVersionConflict means another writer advanced the session between
	// this writer's read and its compare-and-swap. The loser must re-read
	// current state instead of retrying with what it has.
	ErrVersionConflict = errors.New("session changed concurrently")
)

// SessionStore keeps at most one live Session per game. It is the only
// shared mutable state in the engine, and all mutation flows through
// CompareAndSwap with CurrentIndex as the version token, so two concurrent
// submissions for the same session can never both win.
type SessionStore interface {
	// Create stores a new session under its ID.
	Create(ctx context.Context, session *Session) error

	// Get returns a copy of the session or ErrSessionNotFound. Expired
	// sessions are indistinguishable from missing ones.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// CompareAndSwap replaces the stored session only if its CurrentIndex
	// still equals expectedIndex; otherwise ErrVersionConflict.
	CompareAndSwap(ctx context.Context, expectedIndex int, session *Session) error

	// EvictExpired removes idle sessions and reports how many went.
	EvictExpired(ctx context.Context) (int, error)
}
