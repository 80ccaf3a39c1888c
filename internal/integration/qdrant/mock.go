package qdrant

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/askpdf/askpdf-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is an in-memory vector index with cosine ranking, used
// when ENABLE_MOCKS is set and in tests.
type MockConnector struct {
	mu     sync.RWMutex
	points map[uint64]entity.IndexedPoint
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		points: make(map[uint64]entity.IndexedPoint),
		logger: logger,
	}
}

func (m *MockConnector) EnsureCollection(ctx context.Context, dimension int) error {
	ctxzap.Debug(ctx, "[MOCK] ensure collection", zap.Int("dimension", dimension))
	return nil
}

func (m *MockConnector) Upsert(ctx context.Context, points []entity.IndexedPoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range points {
		m.points[p.ID] = p
	}

	ctxzap.Debug(ctx, "[MOCK] points upserted", zap.Int("point_count", len(points)))
	return nil
}

func (m *MockConnector) Search(ctx context.Context, vector []float32, limit int, documentID string) ([]entity.ScoredChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []entity.ScoredChunk
	for _, p := range m.points {
		if documentID != "" && p.Payload.DocumentID != documentID {
			continue
		}
		results = append(results, entity.ScoredChunk{
			Chunk: p.Payload,
			Score: cosineSimilarity(vector, p.Vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}

	return results, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
