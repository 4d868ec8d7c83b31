package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	if s.RequestTimeout > 0 {
		r.Use(timeoutMiddleware(s.RequestTimeout))
	}

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(jsonContentTypeMiddleware)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleStartSession)
			r.Post("/review", s.handleStartReviewSession)
			r.Post("/pause", s.handlePauseSession)
			r.Post("/resume", s.handleResumeSession)
			r.Post("/exit", s.handleExitSession)

			r.Get("/current", s.handleCurrentProgress)
			r.Get("/current/options", s.handleOptions)
			r.Post("/current/answer", s.handleSubmitAnswer)
			r.Post("/current/advance", s.handleAdvance)
			r.Get("/current/stats", s.handleSessionStats)
		})

		r.Get("/summary", s.handleSummary)
		r.Get("/schedule", s.handleSchedule)
		r.Get("/efficiency", s.handleEfficiency)
		r.Get("/words", s.handleWords)
		r.Put("/settings/direction", s.handleSetDirection)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
		r.Post("/import/restore", s.handleRestoreBackup)
		r.Post("/catalog/import", s.handleCatalogImport)
	})

	return r
}
