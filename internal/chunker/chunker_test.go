package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("custom size", func(t *testing.T) {
		c := New(100)
		assert.Equal(t, 100, c.maxChunkSize)
	})

	t.Run("non-positive size falls back to default", func(t *testing.T) {
		assert.Equal(t, DefaultMaxChunkSize, New(0).maxChunkSize)
		assert.Equal(t, DefaultMaxChunkSize, New(-5).maxChunkSize)
	})
}

func TestSplit_Empty(t *testing.T) {
	c := New(1000)
	assert.Nil(t, c.Split(""))
	assert.Nil(t, c.Split("   \n\n  \t "))
}

func TestSplit_TwoParagraphsFit(t *testing.T) {
	c := New(1000)

	chunks := c.Split("Paragraph one.\n\nParagraph two.")

	require.Len(t, chunks, 1)
	assert.Equal(t, "Paragraph one.\n\nParagraph two.", chunks[0])
}

func TestSplit_TwoParagraphsExceedLimit(t *testing.T) {
	c := New(100)

	first := strings.Repeat("a", 60)
	second := strings.Repeat("b", 60)

	chunks := c.Split(first + "\n\n" + second)

	require.Len(t, chunks, 2)
	assert.Equal(t, first, chunks[0])
	assert.Equal(t, second, chunks[1])
}

func TestSplit_OversizedParagraphPassesThrough(t *testing.T) {
	c := New(50)

	huge := strings.Repeat("x", 200)

	chunks := c.Split(huge)

	require.Len(t, chunks, 1)
	assert.Equal(t, huge, chunks[0])
}

func TestSplit_SkipsBlankParagraphs(t *testing.T) {
	c := New(1000)

	chunks := c.Split("one\n\n\n\n   \n\ntwo")

	require.Len(t, chunks, 1)
	assert.Equal(t, "one\n\ntwo", chunks[0])
}

func TestSplit_PreservesOrder(t *testing.T) {
	c := New(10)

	chunks := c.Split("alpha\n\nbravo\n\ncharlie\n\ndelta")

	require.Len(t, chunks, 4)
	assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta"}, chunks)
}

func TestSplit_AccumulatesUpToLimit(t *testing.T) {
	c := New(13)

	// "aaaa\n\nbbbb" is 10 bytes and fits; adding "cccc" would need 16.
	chunks := c.Split("aaaa\n\nbbbb\n\ncccc")

	require.Len(t, chunks, 2)
	assert.Equal(t, "aaaa\n\nbbbb", chunks[0])
	assert.Equal(t, "cccc", chunks[1])
}
