package answer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askpdf/askpdf-backend/internal/chunker"
	"github.com/askpdf/askpdf-backend/internal/config"
	"github.com/askpdf/askpdf-backend/internal/entity"
	"github.com/askpdf/askpdf-backend/internal/extractor"
	"github.com/askpdf/askpdf-backend/internal/integration/openai"
	"github.com/askpdf/askpdf-backend/internal/integration/qdrant"
	"github.com/askpdf/askpdf-backend/internal/repository"
	"github.com/askpdf/askpdf-backend/internal/usecase/ingest"
)

// Ingest a document through the real extractor and chunker with the mock
// connectors, then retrieve against it. The mock embedder maps equal
// texts to equal vectors, so a question identical to one chunk must rank
// that chunk first.
func TestIngestThenAskRoundTrip(t *testing.T) {
	logger := zap.NewNop()
	embeddings := openai.NewMockConnector(32, logger)
	index := qdrant.NewMockConnector(logger)
	sessions := repository.NewSessionCache(config.SessionConfig{
		TTL:             time.Minute,
		CleanupInterval: time.Minute,
	})

	ingestUC := ingest.NewUsecase(
		extractor.NewDefaultChain(logger),
		chunker.New(40),
		embeddings,
		index,
		4,
		logger,
	)
	answerUC := NewUsecase(embeddings, index, embeddings, sessions, 5, logger)

	ctx := context.Background()

	const romeParagraph = "The capital city of Italy is Rome, which sits on the river Tiber."

	text := "The capital city of France is Paris, which sits on the river Seine.\n\n" +
		romeParagraph + "\n\n" +
		"The capital city of Spain is Madrid, close to the river Manzanares."

	result, err := ingestUC.IngestDocument(ctx, "capitals.pdf", []byte(text))
	require.NoError(t, err)
	assert.Equal(t, 3, result.ChunkCount)

	// Retrieval scoped to the ingested document.
	vector, err := embeddings.Embed(ctx, romeParagraph)
	require.NoError(t, err)

	results, err := index.Search(ctx, vector, 5, result.DocumentID)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, romeParagraph, results[0].Chunk.Content)
	assert.Equal(t, result.DocumentID, results[0].Chunk.DocumentID)

	// The full pipeline answers from that context.
	resp, err := answerUC.Ask(ctx, &entity.AskRequest{
		Question:   romeParagraph,
		DocumentID: result.DocumentID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)
	assert.NotEqual(t, "I couldn't find any relevant information to answer your question.", resp.Answer)

	// A filter scoped to an unknown document retrieves nothing and the
	// pipeline falls back to the canned answer.
	missing, err := answerUC.Ask(ctx, &entity.AskRequest{
		Question:   "anything",
		DocumentID: "no-such-document",
	})
	require.NoError(t, err)
	assert.Equal(t, "I couldn't find any relevant information to answer your question.", missing.Answer)
}
