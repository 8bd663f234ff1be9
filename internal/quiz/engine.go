package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSessionCompleted rejects reads and writes against a finished game.
	ErrSessionCompleted = errors.New("session already completed")

	// ErrIndexMismatch rejects submissions that are not for the current
	// question: replays of an answered index, skips ahead, and the loser of
	// a concurrent-submission race all land here. The client should re-fetch
	// the current question instead of retrying blindly.
	ErrIndexMismatch = errors.New("submission is not for the current question")

	// ErrInvalidChoice rejects option choices outside the question's range.
	ErrInvalidChoice = errors.New("chosen option is out of range")
)

// QuestionSource produces a validated question set for a topic.
type QuestionSource interface {
	Generate(ctx context.Context, topic string) ([]Question, error)
}

// Logger is the minimal logging surface the engine needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// StartResult is returned to a player opening a new game.
type StartResult struct {
	SessionID     string
	Topic         string
	QuestionCount int
	Question      PublicQuestion
}

// FinalResult is the verdict of a finished game. Saved is false when the
// history store rejected the write; the verdict itself still stands.
type FinalResult struct {
	Score  int
	Result GameOutcome
	Saved  bool
}

// SubmitResult reports one accepted answer: whether it was correct, the
// running score, and either the next question or the final verdict.
type SubmitResult struct {
	Correct bool
	Score   int
	Next    *PublicQuestion
	Final   *FinalResult
}

// Engine drives the game state machine. All session mutation funnels through
// SubmitAnswer, and SubmitAnswer commits through the store's compare-and-swap,
// so score and current index always advance together from exactly one
// accepted submission.
type Engine struct {
	source   QuestionSource
	store    SessionStore
	recorder ResultRecorder
	log      Logger
	now      func() time.Time
}

func NewEngine(source QuestionSource, store SessionStore, recorder ResultRecorder, log Logger) *Engine {
	return &Engine{
		source:   source,
		store:    store,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

// Start generates a question set for the topic and opens a session. No
// session is created when generation fails.
func (e *Engine) Start(ctx context.Context, userID, topic string) (StartResult, error) {
	if userID == "" {
		return StartResult{}, errors.New("user id is required")
	}

	questions, err := e.source.Generate(ctx, topic)
	if err != nil {
		return StartResult{}, err
	}

	session := NewSession(userID, topic, questions)
	if err := e.store.Create(ctx, session); err != nil {
		return StartResult{}, fmt.Errorf("store session: %w", err)
	}

	if e.log != nil {
		e.log.Info("quiz session started", "session_id", session.ID, "topic", session.Topic)
	}

	return StartResult{
		SessionID:     session.ID,
		Topic:         session.Topic,
		QuestionCount: len(session.Questions),
		Question:      session.Questions[0].Public(),
	}, nil
}

// GetCurrentQuestion returns the question awaiting an answer, without its
// correct index.
func (e *Engine) GetCurrentQuestion(ctx context.Context, sessionID string) (PublicQuestion, error) {
	session, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return PublicQuestion{}, err
	}
	if session.Finished() {
		return PublicQuestion{}, ErrSessionCompleted
	}
	return session.Questions[session.CurrentIndex].Public(), nil
}

// SubmitAnswer validates a submission against the current question, advances
// the session through a compare-and-swap commit, and on the final answer
// computes the verdict and records it exactly once.
func (e *Engine) SubmitAnswer(ctx context.Context, sessionID string, questionIndex, choiceIndex int) (SubmitResult, error) {
	session, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return SubmitResult{}, err
	}
	if session.Finished() {
		return SubmitResult{}, ErrSessionCompleted
	}
	if questionIndex != session.CurrentIndex {
		return SubmitResult{}, fmt.Errorf("%w: current index is %d", ErrIndexMismatch, session.CurrentIndex)
	}
	if choiceIndex < 0 || choiceIndex >= OptionsPerQuestion {
		return SubmitResult{}, fmt.Errorf("%w: %d", ErrInvalidChoice, choiceIndex)
	}

	question := session.Questions[session.CurrentIndex]
	correct := choiceIndex == question.CorrectIndex

	expectedIndex := session.CurrentIndex
	session.Answers[questionIndex] = choiceIndex
	if correct {
		session.Score++
	}
	session.CurrentIndex++
	session.LastActivityAt = e.now().UTC()
	if session.CurrentIndex == len(session.Questions) {
		session.Status = StatusCompleted
	}

	if err := e.store.CompareAndSwap(ctx, expectedIndex, session); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			// The race loser is told the same thing as any out-of-order
			// submission: fetch current state and continue from there.
			return SubmitResult{}, fmt.Errorf("%w: concurrent submission", ErrIndexMismatch)
		}
		return SubmitResult{}, err
	}

	result := SubmitResult{
		Correct: correct,
		Score:   session.Score,
	}

	if session.Status == StatusCompleted {
		result.Final = e.finalize(ctx, session)
		return result, nil
	}

	next := session.Questions[session.CurrentIndex].Public()
	result.Next = &next
	return result, nil
}

// finalize computes the verdict and hands it to the recorder. Only the
// submission that won the completing compare-and-swap reaches this point, so
// the recorder fires exactly once per session. A persistence failure is
// logged and reported as Saved=false; the in-memory verdict is never lost to
// a storage hiccup.
func (e *Engine) finalize(ctx context.Context, session *Session) *FinalResult {
	outcome := OutcomeForScore(session.Score)
	final := &FinalResult{
		Score:  session.Score,
		Result: outcome,
		Saved:  true,
	}

	if e.recorder != nil {
		err := e.recorder.Record(ctx, GameResult{
			UserID:   session.UserID,
			Topic:    session.Topic,
			Score:    session.Score,
			Result:   outcome,
			PlayedAt: e.now().UTC(),
		})
		if err != nil {
			final.Saved = false
			if e.log != nil {
				e.log.Warn("failed to record game result", "session_id", session.ID, "error", err)
			}
		}
	}

	if e.log != nil {
		e.log.Info("quiz session completed",
			"session_id", session.ID,
			"score", session.Score,
			"result", string(outcome),
		)
	}
	return final
}
