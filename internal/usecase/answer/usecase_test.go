package answer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askpdf/askpdf-backend/internal/entity"
)

type stubEmbedder struct {
	vector []float32
	err    error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.vector, s.err
}

type stubIndex struct {
	results        []entity.ScoredChunk
	err            error
	lastDocumentID string
	lastLimit      int
}

func (s *stubIndex) Search(ctx context.Context, vector []float32, limit int, documentID string) ([]entity.ScoredChunk, error) {
	s.lastDocumentID = documentID
	s.lastLimit = limit
	return s.results, s.err
}

type stubGenerator struct {
	answer      string
	err         error
	called      bool
	lastContext string
}

func (s *stubGenerator) GenerateAnswer(ctx context.Context, question, contextText string) (string, error) {
	s.called = true
	s.lastContext = contextText
	return s.answer, s.err
}

type stubSessions struct {
	sessions map[string]*entity.Session
	turns    map[string][]entity.ConversationTurn
	nextID   string
}

func newStubSessions() *stubSessions {
	return &stubSessions{
		sessions: map[string]*entity.Session{},
		turns:    map[string][]entity.ConversationTurn{},
		nextID:   "session-1",
	}
}

func (s *stubSessions) Create(ctx context.Context, documentID string) *entity.Session {
	session := &entity.Session{ID: s.nextID, DocumentID: documentID}
	s.sessions[session.ID] = session
	return session
}

func (s *stubSessions) Get(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return session, nil
}

func (s *stubSessions) AppendTurn(ctx context.Context, sessionID string, turn entity.ConversationTurn) error {
	if _, ok := s.sessions[sessionID]; !ok {
		return entity.ErrSessionNotFound
	}
	s.turns[sessionID] = append(s.turns[sessionID], turn)
	return nil
}

func scored(content string, score float32) entity.ScoredChunk {
	return entity.ScoredChunk{
		Chunk: entity.Chunk{Content: content},
		Score: score,
	}
}

func TestAsk_GeneratesAnswerFromRetrievedChunks(t *testing.T) {
	index := &stubIndex{results: []entity.ScoredChunk{
		scored("most relevant", 0.92),
		scored("second", 0.81),
		scored("third", 0.54),
	}}
	generator := &stubGenerator{answer: "Here is the answer."}
	sessions := newStubSessions()

	uc := NewUsecase(&stubEmbedder{vector: []float32{1}}, index, generator, sessions, 5, zap.NewNop())

	resp, err := uc.Ask(context.Background(), &entity.AskRequest{Question: "what?"})

	require.NoError(t, err)
	assert.Equal(t, "Here is the answer.", resp.Answer)
	assert.Equal(t, "session-1", resp.SessionID)

	// Context keeps retrieval order, joined with blank lines.
	assert.Equal(t, "most relevant\n\nsecond\n\nthird", generator.lastContext)
	assert.Equal(t, 5, index.lastLimit)
}

func TestAsk_NoResultsSkipsGenerator(t *testing.T) {
	generator := &stubGenerator{answer: "should not appear"}
	sessions := newStubSessions()

	uc := NewUsecase(&stubEmbedder{vector: []float32{1}}, &stubIndex{}, generator, sessions, 5, zap.NewNop())

	resp, err := uc.Ask(context.Background(), &entity.AskRequest{Question: "anything?"})

	require.NoError(t, err)
	assert.Equal(t, "I couldn't find any relevant information to answer your question.", resp.Answer)
	assert.False(t, generator.called, "generator must not run without context")

	// The canned turn is still recorded.
	require.Len(t, sessions.turns["session-1"], 1)
	assert.Equal(t, resp.Answer, sessions.turns["session-1"][0].Answer)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	uc := NewUsecase(&stubEmbedder{}, &stubIndex{}, &stubGenerator{}, newStubSessions(), 5, zap.NewNop())

	_, err := uc.Ask(context.Background(), &entity.AskRequest{Question: "   "})

	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestAsk_DocumentFilterPassedThrough(t *testing.T) {
	index := &stubIndex{results: []entity.ScoredChunk{scored("c", 1)}}
	uc := NewUsecase(&stubEmbedder{vector: []float32{1}}, index, &stubGenerator{answer: "a"}, newStubSessions(), 5, zap.NewNop())

	_, err := uc.Ask(context.Background(), &entity.AskRequest{
		Question:   "q",
		DocumentID: "doc-42",
	})

	require.NoError(t, err)
	assert.Equal(t, "doc-42", index.lastDocumentID)
}

func TestAsk_SessionDocumentUsedWhenRequestOmitsIt(t *testing.T) {
	index := &stubIndex{results: []entity.ScoredChunk{scored("c", 1)}}
	sessions := newStubSessions()
	sessions.sessions["existing"] = &entity.Session{ID: "existing", DocumentID: "doc-7"}

	uc := NewUsecase(&stubEmbedder{vector: []float32{1}}, index, &stubGenerator{answer: "a"}, sessions, 5, zap.NewNop())

	resp, err := uc.Ask(context.Background(), &entity.AskRequest{
		Question:  "q",
		SessionID: "existing",
	})

	require.NoError(t, err)
	assert.Equal(t, "existing", resp.SessionID)
	assert.Equal(t, "doc-7", index.lastDocumentID)
}

func TestAsk_UnknownSession(t *testing.T) {
	uc := NewUsecase(&stubEmbedder{}, &stubIndex{}, &stubGenerator{}, newStubSessions(), 5, zap.NewNop())

	_, err := uc.Ask(context.Background(), &entity.AskRequest{
		Question:  "q",
		SessionID: "gone",
	})

	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestAsk_EmbeddingFailure(t *testing.T) {
	embedErr := errors.New("embedding service down")
	uc := NewUsecase(&stubEmbedder{err: embedErr}, &stubIndex{}, &stubGenerator{}, newStubSessions(), 5, zap.NewNop())

	_, err := uc.Ask(context.Background(), &entity.AskRequest{Question: "q"})

	assert.ErrorIs(t, err, embedErr)
}

func TestAsk_GeneratorFailure(t *testing.T) {
	index := &stubIndex{results: []entity.ScoredChunk{scored("c", 1)}}
	genErr := errors.New("model overloaded")
	sessions := newStubSessions()

	uc := NewUsecase(&stubEmbedder{vector: []float32{1}}, index, &stubGenerator{err: genErr}, sessions, 5, zap.NewNop())

	_, err := uc.Ask(context.Background(), &entity.AskRequest{Question: "q"})

	assert.ErrorIs(t, err, genErr)
	assert.Empty(t, sessions.turns["session-1"], "failed turns are not recorded")
}

func TestTranscript(t *testing.T) {
	sessions := newStubSessions()
	sessions.sessions["s"] = &entity.Session{
		ID:         "s",
		DocumentID: "d",
		Turns: []entity.ConversationTurn{
			{Question: "q1", Answer: "a1"},
		},
	}

	uc := NewUsecase(&stubEmbedder{}, &stubIndex{}, &stubGenerator{}, sessions, 5, zap.NewNop())

	session, err := uc.Transcript(context.Background(), "s")

	require.NoError(t, err)
	assert.Equal(t, "d", session.DocumentID)
	require.Len(t, session.Turns, 1)

	_, err = uc.Transcript(context.Background(), "missing")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestExport(t *testing.T) {
	sessions := newStubSessions()
	sessions.sessions["s"] = &entity.Session{
		ID: "s",
		Turns: []entity.ConversationTurn{
			{Question: "What is chapter one about?", Answer: "An introduction."},
		},
	}

	uc := NewUsecase(&stubEmbedder{}, &stubIndex{}, &stubGenerator{}, sessions, 5, zap.NewNop())

	t.Run("markdown", func(t *testing.T) {
		data, contentType, ext, err := uc.Export(context.Background(), "s", entity.FormatMarkdown)
		require.NoError(t, err)
		assert.Equal(t, "text/markdown; charset=utf-8", contentType)
		assert.Equal(t, ".md", ext)
		assert.Contains(t, string(data), "What is chapter one about?")
		assert.Contains(t, string(data), "An introduction.")
	})

	t.Run("pdf", func(t *testing.T) {
		data, contentType, ext, err := uc.Export(context.Background(), "s", entity.FormatPDF)
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", contentType)
		assert.Equal(t, ".pdf", ext)
		assert.True(t, len(data) > 0)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, _, _, err := uc.Export(context.Background(), "s", entity.ResultFormat("xml"))
		assert.ErrorIs(t, err, entity.ErrInvalidParameter)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, _, _, err := uc.Export(context.Background(), "missing", entity.FormatMarkdown)
		assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	})
}
