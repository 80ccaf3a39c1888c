package document

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/askpdf/askpdf-backend/internal/config"
	"github.com/askpdf/askpdf-backend/internal/entity"
	"github.com/askpdf/askpdf-backend/internal/pkg/logger"
	"github.com/askpdf/askpdf-backend/internal/pkg/response"
	"github.com/askpdf/askpdf-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   IngestUsecase
	cfg       config.FileUploadConfig
	validator *validator.Validator
}

func NewHandler(usecase IngestUsecase, cfg config.FileUploadConfig, v *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		cfg:       cfg,
		validator: v,
	}
}

// UploadDocument handles POST /documents
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadDocument")

	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid form data or size too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		ctxzap.Warn(ctx, "no file provided", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "a file is required")
		return
	}
	defer file.Close()

	if err := h.validator.ValidateUpload(header); err != nil {
		ctxzap.Error(ctx, "failed to validate upload", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		ctxzap.Error(ctx, "failed to read uploaded file", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	ctxzap.Info(ctx, "processing uploaded document",
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size),
	)

	result, err := h.usecase.IngestDocument(ctx, header.Filename, data)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "document ingested successfully",
		zap.String("document_id", result.DocumentID),
		zap.Int("chunk_count", result.ChunkCount),
	)

	response.Success(w, &entity.UploadDocumentResponse{
		DocumentID: result.DocumentID,
		ChunkCount: result.ChunkCount,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "ingestion failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrNoExtractableText):
		response.Error(w, http.StatusBadRequest, "could not extract text from document")
	case errors.Is(err, entity.ErrEmbeddingFailed), errors.Is(err, entity.ErrVectorStoreFailed):
		response.Error(w, http.StatusBadGateway, "external service failure")
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
