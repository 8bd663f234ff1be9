// Package history persists finished games and the per-user aggregate
// counters, and serves the read side used by the history endpoints.
package history

import (
	"context"
	"errors"
	"time"

	"mcquiz/internal/quiz"
)

var ErrEntryNotFound = errors.New("history entry not found")

// Entry is one finished game as stored.
type Entry struct {
	ID       int64            `json:"history_id"`
	UserID   string           `json:"user_id"`
	Topic    string           `json:"topic"`
	Score    int              `json:"score"`
	Result   quiz.GameOutcome `json:"result"`
	PlayedAt time.Time        `json:"played_at"`
}

// Stats are the aggregate counters kept on the user record.
type Stats struct {
	UserID      string  `json:"user_id"`
	GamesPlayed int     `json:"games_played"`
	GamesWon    int     `json:"games_won"`
	WinRate     float64 `json:"win_rate"`
}

// Store is a durable game-result recorder plus its read side. Record
// satisfies quiz.ResultRecorder: one call appends a history row and bumps
// the user's counters in the same transaction.
type Store interface {
	quiz.ResultRecorder
	History(ctx context.Context, userID string) ([]Entry, error)
	Stats(ctx context.Context, userID string) (Stats, error)
	DeleteEntry(ctx context.Context, historyID int64, userID string) error
	Close() error
}

func winRate(played, won int) float64 {
	if played == 0 {
		return 0
	}
	return float64(won) / float64(played) * 100
}

func wonIncrement(result quiz.GameOutcome) int {
	if result == quiz.OutcomeWon {
		return 1
	}
	return 0
}
