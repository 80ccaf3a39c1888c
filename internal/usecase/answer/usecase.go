package answer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/askpdf/askpdf-backend/internal/entity"
	"github.com/askpdf/askpdf-backend/internal/pkg/formatter"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Returned verbatim when retrieval finds nothing; the language model is
// not called in that case.
const noContextAnswer = "I couldn't find any relevant information to answer your question."

const contextSeparator = "\n\n"

// AnswerUsecase runs the retrieval-augmented answer pipeline.
type AnswerUsecase struct {
	embedder    Embedder
	index       VectorIndex
	generator   AnswerGenerator
	sessions    SessionStore
	formatters  *formatter.Factory
	searchLimit int
	logger      *zap.Logger
}

func NewUsecase(
	embedder Embedder,
	index VectorIndex,
	generator AnswerGenerator,
	sessions SessionStore,
	searchLimit int,
	logger *zap.Logger,
) *AnswerUsecase {
	if searchLimit < 1 {
		searchLimit = 5
	}
	return &AnswerUsecase{
		embedder:    embedder,
		index:       index,
		generator:   generator,
		sessions:    sessions,
		formatters:  formatter.NewFactory(),
		searchLimit: searchLimit,
		logger:      logger,
	}
}

// Ask answers one question: embed it, retrieve the nearest chunks
// (scoped to a document when a filter is given), assemble the context
// and generate the answer. The turn is recorded in the session.
func (uc *AnswerUsecase) Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("%w: question", entity.ErrMissingField)
	}

	session, err := uc.resolveSession(ctx, req)
	if err != nil {
		return nil, err
	}

	documentID := req.DocumentID
	if documentID == "" {
		documentID = session.DocumentID
	}

	vector, err := uc.embedder.Embed(ctx, req.Question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	results, err := uc.index.Search(ctx, vector, uc.searchLimit, documentID)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	var answerText string
	if len(results) == 0 {
		// Defined terminal case, not an error.
		ctxzap.Info(ctx, "no relevant chunks found",
			zap.String("document_id", documentID),
		)
		answerText = noContextAnswer
	} else {
		contents := make([]string, 0, len(results))
		for _, result := range results {
			contents = append(contents, result.Chunk.Content)
		}

		answerText, err = uc.generator.GenerateAnswer(ctx, req.Question, strings.Join(contents, contextSeparator))
		if err != nil {
			return nil, fmt.Errorf("generate answer: %w", err)
		}

		ctxzap.Info(ctx, "answer generated",
			zap.Int("chunk_count", len(results)),
			zap.Int("answer_length", len(answerText)),
		)
	}

	turn := entity.ConversationTurn{
		Question: req.Question,
		Answer:   answerText,
		AskedAt:  time.Now().UTC(),
	}
	if err := uc.sessions.AppendTurn(ctx, session.ID, turn); err != nil {
		return nil, fmt.Errorf("record turn: %w", err)
	}

	return &entity.AskResponse{
		Answer:    answerText,
		SessionID: session.ID,
	}, nil
}

// Transcript returns the conversation recorded under sessionID.
func (uc *AnswerUsecase) Transcript(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// Export renders the transcript in the requested format and returns the
// bytes with their content type and file extension.
func (uc *AnswerUsecase) Export(ctx context.Context, sessionID string, format entity.ResultFormat) ([]byte, string, string, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, "", "", fmt.Errorf("get session: %w", err)
	}

	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, "", "", err
	}

	data, err := f.Format(session)
	if err != nil {
		return nil, "", "", fmt.Errorf("format transcript: %w", err)
	}

	return data, f.ContentType(), f.FileExtension(), nil
}

func (uc *AnswerUsecase) resolveSession(ctx context.Context, req *entity.AskRequest) (*entity.Session, error) {
	if req.SessionID == "" {
		return uc.sessions.Create(ctx, req.DocumentID), nil
	}

	session, err := uc.sessions.Get(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}
