package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/askpdf/askpdf-backend/internal/entity"
	"github.com/askpdf/askpdf-backend/internal/pkg/logger"
	"github.com/askpdf/askpdf-backend/internal/pkg/response"
	"github.com/askpdf/askpdf-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   AnswerUsecase
	validator *validator.Validator
}

func NewHandler(usecase AnswerUsecase, v *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: v,
	}
}

// Ask handles POST /questions
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	var req entity.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateAsk(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctxzap.Info(ctx, "answering question",
		zap.String("document_id", req.DocumentID),
		zap.String("session_id", req.SessionID),
	)

	resp, err := h.usecase.Ask(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "question answered", zap.String("session_id", resp.SessionID))
	response.Success(w, resp)
}

// GetTranscript handles GET /sessions/{session_id}
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "GetTranscript"),
	)

	session, err := h.usecase.Transcript(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toTranscriptResponse(session))
}

// ExportTranscript handles GET /sessions/{session_id}/export
func (h *Handler) ExportTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "ExportTranscript"),
	)

	format := entity.ResultFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}

	data, contentType, ext, err := h.usecase.Export(ctx, sessionID, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "transcript exported",
		zap.String("format", string(format)),
		zap.Int("size", len(data)),
	)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=transcript%s", ext))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func toTranscriptResponse(session *entity.Session) *entity.TranscriptResponse {
	turns := make([]entity.TurnDTO, 0, len(session.Turns))
	for _, turn := range session.Turns {
		turns = append(turns, entity.TurnDTO{
			Question: turn.Question,
			Answer:   turn.Answer,
			AskedAt:  turn.AskedAt.Format(time.RFC3339),
		})
	}

	return &entity.TranscriptResponse{
		SessionID:  session.ID,
		DocumentID: session.DocumentID,
		Turns:      turns,
	}
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "request failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		response.Error(w, http.StatusNotFound, "session not found")
	case errors.Is(err, entity.ErrMissingField), errors.Is(err, entity.ErrInvalidParameter):
		response.Error(w, http.StatusBadRequest, "invalid parameter")
	case errors.Is(err, entity.ErrEmbeddingFailed),
		errors.Is(err, entity.ErrVectorStoreFailed),
		errors.Is(err, entity.ErrGenerationFailed):
		response.Error(w, http.StatusBadGateway, "external service failure")
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
