package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mcquiz/internal/logger"
)

func NewRouter(engine GameEngine, historyStore HistoryReader, log *logger.Logger) http.Handler {
	api := NewAPI(engine, historyStore, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(api.log))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/quiz", api.handleStartQuiz)
		r.Get("/quiz/{session_id}/question", api.handleGetQuestion)
		r.Post("/quiz/{session_id}/answers", api.handleSubmitAnswer)

		r.Get("/users/{user_id}/history", api.handleHistory)
		r.Get("/users/{user_id}/stats", api.handleStats)
		r.Delete("/users/{user_id}/history/{history_id}", api.handleDeleteHistoryEntry)
	})

	return r
}

// requestLogger emits one structured line per request.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(wrapped, r)
			log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.Status(),
				"bytes", wrapped.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
