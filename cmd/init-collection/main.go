package main

import (
	"context"
	"log"
	"time"

	"github.com/askpdf/askpdf-backend/internal/config"
	"github.com/askpdf/askpdf-backend/internal/integration/qdrant"
	"go.uber.org/zap"
)

// Creates the vector collection if it does not exist yet. Intended to be
// run once before the first deployment; the backend also ensures the
// collection on startup, so this is mostly useful for provisioning
// pipelines that separate infrastructure setup from serving.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	conn, err := qdrant.NewConnector(cfg.QdrantCfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to qdrant", zap.Error(err))
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dimension := cfg.OpenAICfg.EmbeddingDimension()
	if err := conn.EnsureCollection(ctx, dimension); err != nil {
		logger.Fatal("failed to ensure collection", zap.Error(err))
	}

	logger.Info("collection ready",
		zap.String("collection", cfg.QdrantCfg.Collection),
		zap.Int("dimension", dimension),
	)
}
