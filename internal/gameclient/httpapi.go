// Package gameclient is the terminal client's view of the quiz service API.
package gameclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Question is the client-side view of a served question.
type Question struct {
	Index   int      `json:"index"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type StartedGame struct {
	SessionID     string   `json:"session_id"`
	Topic         string   `json:"topic"`
	QuestionCount int      `json:"question_count"`
	Question      Question `json:"question"`
}

type FinalResult struct {
	Score  int    `json:"score"`
	Result string `json:"result"`
	Saved  bool   `json:"saved"`
}

type AnswerOutcome struct {
	Correct  bool         `json:"correct"`
	Score    int          `json:"score"`
	Question *Question    `json:"question,omitempty"`
	Final    *FinalResult `json:"final,omitempty"`
}

type HistoryEntry struct {
	HistoryID int64     `json:"history_id"`
	Topic     string    `json:"topic"`
	Score     int       `json:"score"`
	Result    string    `json:"result"`
	PlayedAt  time.Time `json:"played_at"`
}

type UserStats struct {
	UserID      string  `json:"user_id"`
	GamesPlayed int     `json:"games_played"`
	GamesWon    int     `json:"games_won"`
	WinRate     float64 `json:"win_rate"`
}

func (c *HTTPClient) StartQuiz(ctx context.Context, userID, topic string) (StartedGame, error) {
	var started StartedGame
	err := c.doJSON(ctx, http.MethodPost, "/api/quiz", map[string]string{
		"user_id": userID,
		"topic":   topic,
	}, &started)
	return started, err
}

func (c *HTTPClient) GetQuestion(ctx context.Context, sessionID string) (Question, error) {
	var payload struct {
		Question Question `json:"question"`
	}
	path := "/api/quiz/" + url.PathEscape(sessionID) + "/question"
	err := c.doJSON(ctx, http.MethodGet, path, nil, &payload)
	return payload.Question, err
}

func (c *HTTPClient) SubmitAnswer(ctx context.Context, sessionID string, questionIndex, choiceIndex int) (AnswerOutcome, error) {
	var outcome AnswerOutcome
	path := "/api/quiz/" + url.PathEscape(sessionID) + "/answers"
	err := c.doJSON(ctx, http.MethodPost, path, map[string]int{
		"question_index": questionIndex,
		"choice_index":   choiceIndex,
	}, &outcome)
	return outcome, err
}

func (c *HTTPClient) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	var payload struct {
		History []HistoryEntry `json:"history"`
	}
	path := "/api/users/" + url.PathEscape(userID) + "/history"
	err := c.doJSON(ctx, http.MethodGet, path, nil, &payload)
	return payload.History, err
}

func (c *HTTPClient) Stats(ctx context.Context, userID string) (UserStats, error) {
	var stats UserStats
	path := "/api/users/" + url.PathEscape(userID) + "/stats"
	err := c.doJSON(ctx, http.MethodGet, path, nil, &stats)
	return stats, err
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if target == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
