package quiz

import (
	"context"
	"time"
)

// GameOutcome is the final verdict of a session.
type GameOutcome string

const (
	OutcomeWon  GameOutcome = "WON"
	OutcomeLost GameOutcome = "LOST"
)

// OutcomeForScore applies the fixed win rule: seven or more correct answers
// out of ten wins.
func OutcomeForScore(score int) GameOutcome {
	if score >= WinThreshold {
		return OutcomeWon
	}
	return OutcomeLost
}

// GameResult is the durable record of a finished session. Its shape is shared
// with the history store and must not drift.
type GameResult struct {
	UserID   string
	Topic    string
	Score    int
	Result   GameOutcome
	PlayedAt time.Time
}

// ResultRecorder persists finished games. The engine invokes it exactly once
// per completed session; a recording failure is reported to the player as an
// unsaved result, never as a lost verdict.
type ResultRecorder interface {
	Record(ctx context.Context, result GameResult) error
}
