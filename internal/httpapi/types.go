package httpapi

import (
	"time"

	"mcquiz/internal/quiz"
)

type startQuizRequest struct {
	UserID string `json:"user_id"`
	Topic  string `json:"topic"`
}

type startQuizResponse struct {
	SessionID     string              `json:"session_id"`
	Topic         string              `json:"topic"`
	QuestionCount int                 `json:"question_count"`
	Question      quiz.PublicQuestion `json:"question"`
}

type currentQuestionResponse struct {
	SessionID string              `json:"session_id"`
	Question  quiz.PublicQuestion `json:"question"`
}

type submitAnswerRequest struct {
	QuestionIndex *int `json:"question_index"`
	ChoiceIndex   *int `json:"choice_index"`
}

type submitAnswerResponse struct {
	Correct  bool                 `json:"correct"`
	Score    int                  `json:"score"`
	Question *quiz.PublicQuestion `json:"question,omitempty"`
	Final    *finalResponse       `json:"final,omitempty"`
}

type finalResponse struct {
	Score  int    `json:"score"`
	Result string `json:"result"`
	Saved  bool   `json:"saved"`
}

type historyEntryResponse struct {
	HistoryID int64     `json:"history_id"`
	Topic     string    `json:"topic"`
	Score     int       `json:"score"`
	Result    string    `json:"result"`
	PlayedAt  time.Time `json:"played_at"`
}

type historyResponse struct {
	UserID  string                 `json:"user_id"`
	History []historyEntryResponse `json:"history"`
}

type statsResponse struct {
	UserID      string  `json:"user_id"`
	GamesPlayed int     `json:"games_played"`
	GamesWon    int     `json:"games_won"`
	WinRate     float64 `json:"win_rate"`
}

type errorResponse struct {
	Error string `json:"error"`
}
