package ingest

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/askpdf/askpdf-backend/internal/entity"
	"github.com/askpdf/askpdf-backend/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// IngestUsecase runs the document ingestion pipeline: extract, chunk,
// embed, upsert.
type IngestUsecase struct {
	extractor   Extractor
	chunker     Chunker
	embedder    Embedder
	index       VectorIndex
	concurrency int
	logger      *zap.Logger
}

func NewUsecase(
	extractor Extractor,
	chunker Chunker,
	embedder Embedder,
	index VectorIndex,
	concurrency int,
	logger *zap.Logger,
) *IngestUsecase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &IngestUsecase{
		extractor:   extractor,
		chunker:     chunker,
		embedder:    embedder,
		index:       index,
		concurrency: concurrency,
		logger:      logger,
	}
}

// IngestDocument indexes one uploaded document and returns its generated
// document ID with the number of chunks written. Extraction failure
// aborts before any index call. All chunk embeddings must succeed before
// the single batched upsert, so a failed ingestion leaves no points
// behind for the new document ID.
func (uc *IngestUsecase) IngestDocument(ctx context.Context, filename string, data []byte) (*entity.IngestResult, error) {
	text, err := uc.extractor.Extract(data)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	chunks := uc.chunker.Split(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("chunk text: %w", entity.ErrNoExtractableText)
	}

	documentID := uuid.New().String()
	filename = validator.SanitizeFilename(filename)

	ctxzap.Info(ctx, "ingesting document",
		zap.String("document_id", documentID),
		zap.String("filename", filename),
		zap.Int("chunk_count", len(chunks)),
	)

	// Embeddings are independent; run them concurrently but keep each
	// vector at its chunk index so ordering of completion never matters.
	vectors := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for i, chunk := range chunks {
		g.Go(func() error {
			vec, err := uc.embedder.Embed(gctx, chunk)
			if err != nil {
				return fmt.Errorf("embed chunk %d: %w", i, err)
			}
			vectors[i] = vec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	points := make([]entity.IndexedPoint, 0, len(chunks))
	for i, chunk := range chunks {
		points = append(points, entity.IndexedPoint{
			ID:     PointID(documentID, i),
			Vector: vectors[i],
			Payload: entity.Chunk{
				DocumentID: documentID,
				Filename:   filename,
				Index:      i,
				Content:    chunk,
			},
		})
	}

	if err := uc.index.Upsert(ctx, points); err != nil {
		return nil, fmt.Errorf("upsert points: %w", err)
	}

	ctxzap.Info(ctx, "document ingested",
		zap.String("document_id", documentID),
		zap.Int("chunk_count", len(points)),
	)

	return &entity.IngestResult{
		DocumentID: documentID,
		ChunkCount: len(points),
	}, nil
}

// PointID derives the point identifier from (documentID, chunkIndex).
// The derivation is the identifier contract: re-ingesting under the same
// document ID deterministically overwrites the prior points.
func PointID(documentID string, chunkIndex int) uint64 {
	h := fnv.New64a()
	h.Write([]byte(documentID))
	h.Write([]byte(":"))
	h.Write([]byte(strconv.Itoa(chunkIndex)))
	return h.Sum64()
}
