package httpapi

import (
	"context"

	"mcquiz/internal/history"
	"mcquiz/internal/logger"
	"mcquiz/internal/quiz"
)

// GameEngine is the slice of the quiz engine the HTTP layer needs.
type GameEngine interface {
	Start(ctx context.Context, userID, topic string) (quiz.StartResult, error)
	GetCurrentQuestion(ctx context.Context, sessionID string) (quiz.PublicQuestion, error)
	SubmitAnswer(ctx context.Context, sessionID string, questionIndex, choiceIndex int) (quiz.SubmitResult, error)
}

// HistoryReader serves the finished-games read surface.
type HistoryReader interface {
	History(ctx context.Context, userID string) ([]history.Entry, error)
	Stats(ctx context.Context, userID string) (history.Stats, error)
	DeleteEntry(ctx context.Context, historyID int64, userID string) error
}

type API struct {
	engine  GameEngine
	history HistoryReader
	log     *logger.Logger
}

func NewAPI(engine GameEngine, historyStore HistoryReader, log *logger.Logger) *API {
	if log == nil {
		log = logger.NewNop()
	}
	return &API{
		engine:  engine,
		history: historyStore,
		log:     log,
	}
}
