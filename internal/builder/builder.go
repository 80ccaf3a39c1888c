package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/askpdf/askpdf-backend/internal/api"
	documentapi "github.com/askpdf/askpdf-backend/internal/api/document"
	questionapi "github.com/askpdf/askpdf-backend/internal/api/question"
	"github.com/askpdf/askpdf-backend/internal/chunker"
	"github.com/askpdf/askpdf-backend/internal/config"
	"github.com/askpdf/askpdf-backend/internal/entity"
	"github.com/askpdf/askpdf-backend/internal/extractor"
	"github.com/askpdf/askpdf-backend/internal/integration/openai"
	"github.com/askpdf/askpdf-backend/internal/integration/qdrant"
	"github.com/askpdf/askpdf-backend/internal/pkg/validator"
	"github.com/askpdf/askpdf-backend/internal/repository"
	"github.com/askpdf/askpdf-backend/internal/telegram"
	"github.com/askpdf/askpdf-backend/internal/usecase/answer"
	"github.com/askpdf/askpdf-backend/internal/usecase/ingest"
	"go.uber.org/zap"
)

// embeddingService is what the pipelines need from the OpenAI connector.
type embeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	GenerateAnswer(ctx context.Context, question, contextText string) (string, error)
	Dimension() int
}

// vectorIndex is what the pipelines need from the Qdrant connector.
type vectorIndex interface {
	EnsureCollection(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, points []entity.IndexedPoint) error
	Search(ctx context.Context, vector []float32, limit int, documentID string) ([]entity.ScoredChunk, error)
}

type components struct {
	cfg      *config.Config
	logger   *zap.Logger
	ingestUC *ingest.IngestUsecase
	answerUC *answer.AnswerUsecase
	closers  []func() error
}

func buildComponents() (*components, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("embedding_model", cfg.OpenAICfg.EmbeddingModel),
	)

	var embeddings embeddingService
	var index vectorIndex
	var closers []func() error

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		embeddings = openai.NewMockConnector(cfg.OpenAICfg.EmbeddingDimension(), logger)
		index = qdrant.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		embeddings = openai.NewConnector(cfg.OpenAICfg, logger)

		qdrantConn, err := qdrant.NewConnector(cfg.QdrantCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup qdrant connector: %w", err)
		}
		index = qdrantConn
		closers = append(closers, qdrantConn.Close)
	}

	// Create-if-absent; dimension and distance are fixed at creation.
	if err := index.EnsureCollection(ctx, embeddings.Dimension()); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	extractorChain := extractor.NewDefaultChain(logger)
	textChunker := chunker.New(cfg.PipelineCfg.MaxChunkSize)
	sessionRepo := repository.NewSessionCache(cfg.SessionCfg)

	ingestUC := ingest.NewUsecase(
		extractorChain,
		textChunker,
		embeddings,
		index,
		cfg.PipelineCfg.EmbedConcurrency,
		logger,
	)

	answerUC := answer.NewUsecase(
		embeddings,
		index,
		embeddings,
		sessionRepo,
		cfg.PipelineCfg.SearchLimit,
		logger,
	)
	logger.Info("Use cases initialized")

	return &components{
		cfg:      cfg,
		logger:   logger,
		ingestUC: ingestUC,
		answerUC: answerUC,
		closers:  closers,
	}, nil
}

// Build assembles the HTTP application.
func Build() (*App, error) {
	c, err := buildComponents()
	if err != nil {
		return nil, err
	}

	uploadValidator := validator.NewValidator(c.cfg.FileUploadCfg)

	documentHandler := documentapi.NewHandler(c.ingestUC, c.cfg.FileUploadCfg, uploadValidator)
	questionHandler := questionapi.NewHandler(c.answerUC, uploadValidator)
	c.logger.Info("API handlers initialized")

	router := api.SetupRouter(documentHandler, questionHandler, c.cfg.APIKey, c.logger)
	c.logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         c.cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	c.logger.Info("Application built successfully",
		zap.String("environment", c.cfg.Environment),
	)

	return &App{
		server:  server,
		logger:  c.logger,
		closers: c.closers,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (*telegram.Bot, *zap.Logger, error) {
	c, err := buildComponents()
	if err != nil {
		return nil, nil, err
	}

	bot, err := telegram.NewBot(&c.cfg.TelegramCfg, c.cfg.FileUploadCfg, c.ingestUC, c.answerUC, c.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	c.logger.Info("Telegram bot built successfully")
	return bot, c.logger, nil
}

func setupLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}
