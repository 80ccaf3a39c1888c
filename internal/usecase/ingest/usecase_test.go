package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askpdf/askpdf-backend/internal/entity"
)

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(data []byte) (string, error) {
	return s.text, s.err
}

type stubChunker struct {
	chunks []string
}

func (s *stubChunker) Split(text string) []string {
	return s.chunks
}

type stubEmbedder struct {
	mu      sync.Mutex
	calls   []string
	err     error
	perCall func(text string) ([]float32, error)
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	s.calls = append(s.calls, text)
	s.mu.Unlock()

	if s.perCall != nil {
		return s.perCall(text)
	}
	if s.err != nil {
		return nil, s.err
	}
	return []float32{float32(len(text))}, nil
}

type stubIndex struct {
	mu      sync.Mutex
	upserts [][]entity.IndexedPoint
	err     error
}

func (s *stubIndex) Upsert(ctx context.Context, points []entity.IndexedPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts = append(s.upserts, points)
	return s.err
}

func newTestUsecase(ex Extractor, ch Chunker, em Embedder, ix VectorIndex) *IngestUsecase {
	return NewUsecase(ex, ch, em, ix, 4, zap.NewNop())
}

func TestIngestDocument_Success(t *testing.T) {
	index := &stubIndex{}
	embedder := &stubEmbedder{}
	uc := newTestUsecase(
		&stubExtractor{text: "some text"},
		&stubChunker{chunks: []string{"first", "second", "third"}},
		embedder,
		index,
	)

	result, err := uc.IngestDocument(context.Background(), "report.pdf", []byte("raw"))

	require.NoError(t, err)
	assert.NotEmpty(t, result.DocumentID)
	assert.Equal(t, 3, result.ChunkCount)

	require.Len(t, index.upserts, 1, "all points go in one batched upsert")
	points := index.upserts[0]
	require.Len(t, points, 3)

	for i, p := range points {
		assert.Equal(t, i, p.Payload.Index)
		assert.Equal(t, result.DocumentID, p.Payload.DocumentID)
		assert.Equal(t, "report.pdf", p.Payload.Filename)
		assert.Equal(t, PointID(result.DocumentID, i), p.ID)
	}
	assert.Equal(t, "first", points[0].Payload.Content)
	assert.Equal(t, "second", points[1].Payload.Content)
	assert.Equal(t, "third", points[2].Payload.Content)
}

func TestIngestDocument_VectorsKeepChunkOrder(t *testing.T) {
	// Slow down the first chunk so it finishes last; its vector must
	// still land at index 0.
	embedder := &stubEmbedder{
		perCall: func(text string) ([]float32, error) {
			if text == "slow" {
				time.Sleep(50 * time.Millisecond)
			}
			return []float32{float32(len(text))}, nil
		},
	}
	index := &stubIndex{}
	uc := newTestUsecase(
		&stubExtractor{text: "t"},
		&stubChunker{chunks: []string{"slow", "quick one", "quick two"}},
		embedder,
		index,
	)

	_, err := uc.IngestDocument(context.Background(), "f.pdf", nil)

	require.NoError(t, err)
	points := index.upserts[0]
	assert.Equal(t, []float32{4}, points[0].Vector)
	assert.Equal(t, []float32{9}, points[1].Vector)
	assert.Equal(t, []float32{9}, points[2].Vector)
}

func TestIngestDocument_ExtractionFailure(t *testing.T) {
	embedder := &stubEmbedder{}
	index := &stubIndex{}
	uc := newTestUsecase(
		&stubExtractor{err: entity.ErrNoExtractableText},
		&stubChunker{},
		embedder,
		index,
	)

	_, err := uc.IngestDocument(context.Background(), "f.pdf", nil)

	assert.ErrorIs(t, err, entity.ErrNoExtractableText)
	assert.Empty(t, embedder.calls, "no embedding on extraction failure")
	assert.Empty(t, index.upserts, "no index call on extraction failure")
}

func TestIngestDocument_NoChunks(t *testing.T) {
	index := &stubIndex{}
	uc := newTestUsecase(
		&stubExtractor{text: "   "},
		&stubChunker{chunks: nil},
		&stubEmbedder{},
		index,
	)

	_, err := uc.IngestDocument(context.Background(), "f.pdf", nil)

	assert.ErrorIs(t, err, entity.ErrNoExtractableText)
	assert.Empty(t, index.upserts)
}

func TestIngestDocument_EmbeddingFailure(t *testing.T) {
	embedErr := fmt.Errorf("%w: boom", entity.ErrEmbeddingFailed)
	index := &stubIndex{}
	uc := newTestUsecase(
		&stubExtractor{text: "t"},
		&stubChunker{chunks: []string{"a", "b"}},
		&stubEmbedder{err: embedErr},
		index,
	)

	_, err := uc.IngestDocument(context.Background(), "f.pdf", nil)

	assert.ErrorIs(t, err, entity.ErrEmbeddingFailed)
	assert.Empty(t, index.upserts, "no upsert when any embedding fails")
}

func TestIngestDocument_UpsertFailure(t *testing.T) {
	index := &stubIndex{err: errors.New("connection refused")}
	uc := newTestUsecase(
		&stubExtractor{text: "t"},
		&stubChunker{chunks: []string{"a"}},
		&stubEmbedder{},
		index,
	)

	_, err := uc.IngestDocument(context.Background(), "f.pdf", nil)

	assert.Error(t, err)
}

func TestPointID_Deterministic(t *testing.T) {
	a := PointID("doc-1", 0)
	b := PointID("doc-1", 0)
	assert.Equal(t, a, b)

	assert.NotEqual(t, PointID("doc-1", 0), PointID("doc-1", 1))
	assert.NotEqual(t, PointID("doc-1", 0), PointID("doc-2", 0))

	// The index participates as a decimal string, so 1:12 and 11:2
	// style collisions are excluded by the separator.
	assert.NotEqual(t, PointID("d:1", 2), PointID("d", 12))
}
