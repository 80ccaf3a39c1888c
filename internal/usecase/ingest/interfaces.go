package ingest

import (
	"context"

	"github.com/askpdf/askpdf-backend/internal/entity"
)

type Extractor interface {
	Extract(data []byte) (string, error)
}

type Chunker interface {
	Split(text string) []string
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorIndex interface {
	Upsert(ctx context.Context, points []entity.IndexedPoint) error
}
