package document

import (
	"context"

	"github.com/askpdf/askpdf-backend/internal/entity"
)

type IngestUsecase interface {
	IngestDocument(ctx context.Context, filename string, data []byte) (*entity.IngestResult, error)
}
