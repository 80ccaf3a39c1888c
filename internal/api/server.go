package api

import (
	"net/http"
	"time"

	"github.com/askpdf/askpdf-backend/internal/api/docs"
	"github.com/askpdf/askpdf-backend/internal/api/document"
	"github.com/askpdf/askpdf-backend/internal/api/middleware"
	"github.com/askpdf/askpdf-backend/internal/api/question"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(documentHandler *document.Handler, questionHandler *question.Handler, apiKey string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)
	r.Use(chimiddleware.Timeout(120 * time.Second))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// API routes require the configured key
	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(apiKey))

		document.RegisterRoutes(r, documentHandler)
		question.RegisterRoutes(r, questionHandler)
	})

	return r
}
