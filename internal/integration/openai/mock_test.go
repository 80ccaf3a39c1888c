package openai

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMockConnector_EmbedDeterministic(t *testing.T) {
	m := NewMockConnector(8, zap.NewNop())
	ctx := context.Background()

	a, err := m.Embed(ctx, "same text")
	require.NoError(t, err)
	b, err := m.Embed(ctx, "same text")
	require.NoError(t, err)
	c, err := m.Embed(ctx, "different text")
	require.NoError(t, err)

	assert.Equal(t, a, b, "equal texts map to equal vectors")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 8)
}

func TestMockConnector_EmbedUnitLength(t *testing.T) {
	m := NewMockConnector(16, zap.NewNop())

	vec, err := m.Embed(context.Background(), "normalise me")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-4)
}

func TestMockConnector_DefaultDimension(t *testing.T) {
	m := NewMockConnector(0, zap.NewNop())
	assert.Equal(t, 1536, m.Dimension())
}
