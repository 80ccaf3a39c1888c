package openai

import (
	"context"
	"fmt"

	"github.com/askpdf/askpdf-backend/internal/config"
	"github.com/askpdf/askpdf-backend/internal/entity"
	pkghttp "github.com/askpdf/askpdf-backend/pkg/http"
	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	answerSystemInstruction = "You are a helpful assistant that answers questions based on the provided PDF content. " +
		"Only use the context provided to answer questions. If the answer cannot be found in the context, " +
		"say you don't have enough information to answer accurately."

	answerUserTemplate = "Context: %s\n\nQuestion: %s\n\nAnswer:"

	// Returned when the model produces an empty completion.
	emptyAnswerFallback = "Unable to generate an answer."

	answerTemperature = 0.5
	answerMaxTokens   = 500
)

// Connector talks to the OpenAI API for embeddings and chat completions.
type Connector struct {
	client *openai.Client
	config config.OpenAIConfig
	logger *zap.Logger
}

func NewConnector(cfg config.OpenAIConfig, logger *zap.Logger) *Connector {
	clientCfg := openai.DefaultConfig(cfg.Token)
	clientCfg.HTTPClient = pkghttp.NewClient(
		pkghttp.WithRequestTimeout(cfg.RequestTimeout),
		pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
		pkghttp.WithClientKeepAlive(cfg.KeepAlive),
		pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkghttp.WithRequestLogging(),
	)

	return &Connector{
		client: openai.NewClientWithConfig(clientCfg),
		config: cfg,
		logger: logger,
	}
}

// Dimension returns the vector size of the configured embedding model.
func (c *Connector) Dimension() int {
	return c.config.EmbeddingDimension()
}

// Embed turns text into a fixed-dimension vector.
func (c *Connector) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty input", entity.ErrEmbeddingFailed)
	}

	var embedding []float32

	err := retry.Do(func() error {
		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(c.config.EmbeddingModel),
			Input: []string{text},
		})
		if err != nil {
			return err
		}

		if len(resp.Data) == 0 {
			return fmt.Errorf("no embedding data returned")
		}

		raw := resp.Data[0].Embedding
		embedding = make([]float32, len(raw))
		for i := range raw {
			embedding[i] = float32(raw[i])
		}
		return nil
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)

	if err != nil {
		ctxzap.Error(ctx, "embedding request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", entity.ErrEmbeddingFailed, err)
	}

	if len(embedding) != c.Dimension() {
		return nil, fmt.Errorf("%w: got %d dimensions, expected %d",
			entity.ErrEmbeddingFailed, len(embedding), c.Dimension())
	}

	return embedding, nil
}

// GenerateAnswer asks the chat model to answer the question using only
// the supplied context.
func (c *Connector) GenerateAnswer(ctx context.Context, question, contextText string) (string, error) {
	var answer string

	err := retry.Do(func() error {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.config.ChatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: answerSystemInstruction,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(answerUserTemplate, contextText, question),
				},
			},
			Temperature: answerTemperature,
			MaxTokens:   answerMaxTokens,
		})
		if err != nil {
			return err
		}

		if len(resp.Choices) == 0 {
			answer = ""
			return nil
		}

		answer = resp.Choices[0].Message.Content
		return nil
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)

	if err != nil {
		ctxzap.Error(ctx, "chat completion failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", entity.ErrGenerationFailed, err)
	}

	if answer == "" {
		return emptyAnswerFallback, nil
	}

	return answer, nil
}
