package answer

import (
	"context"

	"github.com/askpdf/askpdf-backend/internal/entity"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorIndex interface {
	Search(ctx context.Context, vector []float32, limit int, documentID string) ([]entity.ScoredChunk, error)
}

type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question, contextText string) (string, error)
}

type SessionStore interface {
	Create(ctx context.Context, documentID string) *entity.Session
	Get(ctx context.Context, sessionID string) (*entity.Session, error)
	AppendTurn(ctx context.Context, sessionID string, turn entity.ConversationTurn) error
}
