package openai

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is a deterministic offline stand-in for the OpenAI API,
// used when ENABLE_MOCKS is set and in tests.
type MockConnector struct {
	dimension int
	logger    *zap.Logger
}

func NewMockConnector(dimension int, logger *zap.Logger) *MockConnector {
	if dimension <= 0 {
		dimension = 1536
	}
	return &MockConnector{
		dimension: dimension,
		logger:    logger,
	}
}

func (m *MockConnector) Dimension() int {
	return m.dimension
}

// Embed produces a unit-length pseudo-vector seeded by the text hash, so
// equal texts always map to equal vectors.
func (m *MockConnector) Embed(ctx context.Context, text string) ([]float32, error) {
	ctxzap.Debug(ctx, "[MOCK] embedding text", zap.Int("text_length", len(text)))

	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, m.dimension)
	var norm float64
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		v := float64(int64(seed)) / math.MaxInt64
		vec[i] = float32(v)
		norm += v * v
	}

	inv := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= inv
	}

	return vec, nil
}

func (m *MockConnector) GenerateAnswer(ctx context.Context, question, contextText string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating answer",
		zap.Int("context_length", len(contextText)),
	)

	return fmt.Sprintf("[MOCK] Answer to %q based on %d characters of context.", question, len(contextText)), nil
}
