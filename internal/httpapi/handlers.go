package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (a *API) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var request startQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	userID := strings.TrimSpace(request.UserID)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return
	}

	started, err := a.engine.Start(r.Context(), userID, request.Topic)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, startQuizResponse{
		SessionID:     started.SessionID,
		Topic:         started.Topic,
		QuestionCount: started.QuestionCount,
		Question:      started.Question,
	})
}

func (a *API) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	question, err := a.engine.GetCurrentQuestion(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, currentQuestionResponse{
		SessionID: sessionID,
		Question:  question,
	})
}

func (a *API) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	sessionID := chi.URLParam(r, "session_id")

	var request submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if request.QuestionIndex == nil || request.ChoiceIndex == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question_index and choice_index are required"})
		return
	}

	result, err := a.engine.SubmitAnswer(r.Context(), sessionID, *request.QuestionIndex, *request.ChoiceIndex)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	response := submitAnswerResponse{
		Correct:  result.Correct,
		Score:    result.Score,
		Question: result.Next,
	}
	if result.Final != nil {
		response.Final = &finalResponse{
			Score:  result.Final.Score,
			Result: string(result.Final.Result),
			Saved:  result.Final.Saved,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (a *API) handleHistory(w http.ResponseWriter, r *http.Request) {
	if a.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "history store unavailable"})
		return
	}

	userID := chi.URLParam(r, "user_id")
	entries, err := a.history.History(r.Context(), userID)
	if err != nil {
		writeHistoryError(w, err)
		return
	}

	response := historyResponse{
		UserID:  userID,
		History: make([]historyEntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		response.History = append(response.History, historyEntryResponse{
			HistoryID: entry.ID,
			Topic:     entry.Topic,
			Score:     entry.Score,
			Result:    string(entry.Result),
			PlayedAt:  entry.PlayedAt,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	if a.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "history store unavailable"})
		return
	}

	userID := chi.URLParam(r, "user_id")
	stats, err := a.history.Stats(r.Context(), userID)
	if err != nil {
		writeHistoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		UserID:      userID,
		GamesPlayed: stats.GamesPlayed,
		GamesWon:    stats.GamesWon,
		WinRate:     stats.WinRate,
	})
}

func (a *API) handleDeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	if a.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "history store unavailable"})
		return
	}

	userID := chi.URLParam(r, "user_id")
	historyID, err := strconv.ParseInt(chi.URLParam(r, "history_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "history_id must be an integer"})
		return
	}

	if err := a.history.DeleteEntry(r.Context(), historyID, userID); err != nil {
		writeHistoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
