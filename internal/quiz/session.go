package quiz

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks where a session is in its lifecycle.
type Status string

const (
	StatusCreated    Status = "created"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusExpired    Status = "expired"
)

// Session is one ten-question game. It is owned by the session store for its
// lifetime and mutated only through Engine.SubmitAnswer; CurrentIndex is
// monotonic and doubles as the optimistic-concurrency version for
// compare-and-swap writes.
type Session struct {
	ID             string
	UserID         string
	Topic          string
	Questions      []Question
	CurrentIndex   int
	Answers        map[int]int
	Score          int
	Status         Status
	CreatedAt      time.Time
	LastActivityAt time.Time
}

// NewSession builds an in-progress session around a validated question set.
// The first question is served immediately on start, so the session never
// rests in the created state.
func NewSession(userID, topic string, questions []Question) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:             "qs_" + uuid.NewString(),
		UserID:         userID,
		Topic:          topic,
		Questions:      questions,
		CurrentIndex:   0,
		Answers:        make(map[int]int, len(questions)),
		Score:          0,
		Status:         StatusInProgress,
		CreatedAt:      now,
		LastActivityAt: now,
	}
}

// Clone returns a deep-enough copy for handing to callers: the answers map is
// copied so store readers never alias live session state. Questions are
// immutable after validation and can be shared.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	copied := *s
	copied.Answers = make(map[int]int, len(s.Answers))
	for idx, choice := range s.Answers {
		copied.Answers[idx] = choice
	}
	return &copied
}

// Finished reports whether the session accepts no further answers.
func (s *Session) Finished() bool {
	return s.Status == StatusCompleted || s.Status == StatusExpired
}

// IdleSince reports whether the session has been inactive past the ttl.
func (s *Session) IdleSince(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastActivityAt) > ttl
}
