package question

import (
	"context"

	"github.com/askpdf/askpdf-backend/internal/entity"
)

type AnswerUsecase interface {
	Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskResponse, error)
	Transcript(ctx context.Context, sessionID string) (*entity.Session, error)
	Export(ctx context.Context, sessionID string, format entity.ResultFormat) (data []byte, contentType string, fileExtension string, err error)
}
