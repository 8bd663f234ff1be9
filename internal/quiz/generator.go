package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyTopic rejects a generation request before the provider is called.
	ErrEmptyTopic = errors.New("topic is required")

	// ErrProviderUnavailable is terminal: every attempt failed to reach the
	// provider or get a successful response out of it.
	ErrProviderUnavailable = errors.New("question provider unavailable")

	// ErrExhaustedRetries is terminal: the provider kept answering, but every
	// attempt produced output that failed validation.
	ErrExhaustedRetries = errors.New("provider output failed validation on every attempt")
)

// BatchFetcher asks the external provider for count raw questions about a
// topic at one difficulty and returns its unparsed textual output.
type BatchFetcher func(ctx context.Context, topic string, count int, difficulty Difficulty) (string, error)

// difficultyBatch is one slice of the fixed game plan.
type difficultyBatch struct {
	difficulty Difficulty
	count      int
}

// gamePlan mixes difficulties the way the game has always done: five easy,
// three medium, two hard, in that order.
var gamePlan = []difficultyBatch{
	{DifficultyEasy, 5},
	{DifficultyMedium, 3},
	{DifficultyHard, 2},
}

const defaultMaxAttempts = 3

// Generator obtains validated question sets from an unreliable provider. The
// provider is treated as adversarial with respect to output shape: every
// batch goes through ParseQuestionSet, and a failed attempt is discarded
// wholesale so retries never reuse part of a malformed batch.
type Generator struct {
	fetch       BatchFetcher
	maxAttempts int
}

func NewGenerator(fetch BatchFetcher) *Generator {
	return &Generator{
		fetch:       fetch,
		maxAttempts: defaultMaxAttempts,
	}
}

// Generate returns exactly QuestionsPerGame validated questions for the
// topic, or a terminal error wrapping ErrProviderUnavailable or
// ErrExhaustedRetries after the attempt budget is spent.
func (g *Generator) Generate(ctx context.Context, topic string) ([]Question, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if g.fetch == nil {
		return nil, fmt.Errorf("%w: no fetcher configured", ErrProviderUnavailable)
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}

		questions, err := g.generateOnce(ctx, topic)
		if err == nil {
			return questions, nil
		}
		lastErr = err
	}

	var parseErr *ParseError
	if errors.As(lastErr, &parseErr) {
		return nil, fmt.Errorf("%w after %d attempts: %v", ErrExhaustedRetries, g.maxAttempts, lastErr)
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrProviderUnavailable, g.maxAttempts, lastErr)
}

// generateOnce runs one full attempt: every batch of the plan is fetched
// fresh and the combined set must validate as a whole.
func (g *Generator) generateOnce(ctx context.Context, topic string) ([]Question, error) {
	questions := make([]Question, 0, QuestionsPerGame)
	for _, batch := range gamePlan {
		raw, err := g.fetch(ctx, topic, batch.count, batch.difficulty)
		if err != nil {
			return nil, err
		}

		parsed, err := ParseQuestionSet(raw, batch.count)
		if err != nil {
			return nil, err
		}

		for _, question := range parsed {
			question.Index = len(questions)
			question.Difficulty = batch.difficulty
			questions = append(questions, question)
		}
	}

	if len(questions) != QuestionsPerGame {
		return nil, parseFailure(ParseWrongCount, "assembled %d questions, want %d", len(questions), QuestionsPerGame)
	}
	return questions, nil
}
