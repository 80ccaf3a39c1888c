package question

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers question and session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/questions", h.Ask)

	r.Route("/sessions/{session_id}", func(r chi.Router) {
		r.Get("/", h.GetTranscript)
		r.Get("/export", h.ExportTranscript)
	})
}
