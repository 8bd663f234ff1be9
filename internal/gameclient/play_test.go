package gameclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeQuizServer drives a three-question game over the real wire format.
type fakeQuizServer struct {
	questionCount int
	currentIndex  int
	score         int
}

func (s *fakeQuizServer) question(index int) Question {
	return Question{
		Index:   index,
		Prompt:  fmt.Sprintf("Question %d?", index+1),
		Options: []string{"One", "Two", "Three", "Four"},
	}
}

func (s *fakeQuizServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/quiz", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
			Topic  string `json:"topic"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(StartedGame{
			SessionID:     "qs_test",
			Topic:         req.Topic,
			QuestionCount: s.questionCount,
			Question:      s.question(0),
		})
	})
	mux.HandleFunc("POST /api/quiz/qs_test/answers", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuestionIndex int `json:"question_index"`
			ChoiceIndex   int `json:"choice_index"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		if req.QuestionIndex != s.currentIndex {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "submission is not for the current question"})
			return
		}

		correct := req.ChoiceIndex == 0
		if correct {
			s.score++
		}
		s.currentIndex++

		outcome := AnswerOutcome{Correct: correct, Score: s.score}
		if s.currentIndex == s.questionCount {
			result := "LOST"
			if s.score >= 7 {
				result = "WON"
			}
			outcome.Final = &FinalResult{Score: s.score, Result: result, Saved: true}
		} else {
			next := s.question(s.currentIndex)
			outcome.Question = &next
		}
		_ = json.NewEncoder(w).Encode(outcome)
	})
	return mux
}

func TestRunPlaysFullGame(t *testing.T) {
	fake := &fakeQuizServer{questionCount: 3}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	// Answer a, b, a: two correct, one wrong.
	input := strings.NewReader("a\nb\na\n")
	var output bytes.Buffer

	err := Run(context.Background(), input, &output, Config{
		UserID:    "u1",
		Topic:     "Science",
		ServerURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := output.String()
	if !strings.Contains(text, "Q1/3") || !strings.Contains(text, "Q3/3") {
		t.Fatalf("questions not printed:\n%s", text)
	}
	if !strings.Contains(text, "Final score: 2/3") {
		t.Fatalf("final score missing:\n%s", text)
	}
	if !strings.Contains(text, "you lost") {
		t.Fatalf("verdict missing:\n%s", text)
	}
}

func TestRunRejectsBlankInputs(t *testing.T) {
	if err := Run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, Config{Topic: "x"}); err == nil {
		t.Fatalf("expected error without user id")
	}
	if err := Run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, Config{UserID: "u"}); err == nil {
		t.Fatalf("expected error without topic")
	}
}

func TestRunRepromptsOnInvalidLetter(t *testing.T) {
	fake := &fakeQuizServer{questionCount: 1}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	input := strings.NewReader("zz\n\na\n")
	var output bytes.Buffer

	err := Run(context.Background(), input, &output, Config{
		UserID:    "u1",
		Topic:     "Science",
		ServerURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(output.String(), "please answer with a single letter") {
		t.Fatalf("expected reprompt:\n%s", output.String())
	}
}
