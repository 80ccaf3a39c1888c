package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	pkgRetry "github.com/askpdf/askpdf-backend/internal/pkg/retry"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Inbound API authorization
	APIKey string `env:"API_KEY,notEmpty"`

	// External service configurations
	OpenAICfg OpenAIConfig `envPrefix:"OPENAI_"`
	QdrantCfg QdrantConfig `envPrefix:"QDRANT_"`

	// Pipeline tuning
	PipelineCfg PipelineConfig `envPrefix:"PIPELINE_"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Session configuration
	SessionCfg SessionConfig `envPrefix:"SESSION_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (only required by the bot binary)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// OpenAIConfig holds the embedding/completion service configuration.
type OpenAIConfig struct {
	HTTPClientConfig
	EmbeddingModel string               `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	ChatModel      string               `env:"CHAT_MODEL" envDefault:"gpt-4o"`
	Retry          pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// EmbeddingDimension returns the vector size produced by the configured
// embedding model. Ingestion and query must share one dimension per
// deployment; the collection is created with this size.
func (c OpenAIConfig) EmbeddingDimension() int {
	if c.EmbeddingModel == "text-embedding-3-large" {
		return 3072
	}
	return 1536
}

// QdrantConfig holds the vector index configuration.
type QdrantConfig struct {
	Host       string        `env:"HOST,notEmpty"`
	Port       int           `env:"PORT" envDefault:"6334"`
	APIKey     string        `env:"API_KEY"`
	Collection string        `env:"COLLECTION" envDefault:"pdf_chunks"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// PipelineConfig tunes the ingestion and answer pipelines.
type PipelineConfig struct {
	MaxChunkSize     int `env:"MAX_CHUNK_SIZE" envDefault:"8000"`
	SearchLimit      int `env:"SEARCH_LIMIT" envDefault:"5"`
	EmbedConcurrency int `env:"EMBED_CONCURRENCY" envDefault:"10"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"` // 10 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"`
}

// SessionConfig holds the conversation session cache settings.
type SessionConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"1h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken        string `env:"BOT_TOKEN"`
	UpdateTimeout   int    `env:"UPDATE_TIMEOUT" envDefault:"30"`
	ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"` // seconds
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.PipelineCfg.MaxChunkSize < 100 {
		errs = append(errs, fmt.Sprintf("PIPELINE_MAX_CHUNK_SIZE must be at least 100, got %d", cfg.PipelineCfg.MaxChunkSize))
	}

	if cfg.PipelineCfg.SearchLimit < 1 || cfg.PipelineCfg.SearchLimit > 100 {
		errs = append(errs, fmt.Sprintf("PIPELINE_SEARCH_LIMIT must be between 1 and 100, got %d", cfg.PipelineCfg.SearchLimit))
	}

	if cfg.PipelineCfg.EmbedConcurrency < 1 || cfg.PipelineCfg.EmbedConcurrency > 64 {
		errs = append(errs, fmt.Sprintf("PIPELINE_EMBED_CONCURRENCY must be between 1 and 64, got %d", cfg.PipelineCfg.EmbedConcurrency))
	}

	if cfg.FileUploadCfg.MaxFileSize < 1 {
		errs = append(errs, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_SIZE must be positive, got %d", cfg.FileUploadCfg.MaxFileSize))
	}

	if !cfg.EnableMocks && cfg.OpenAICfg.Token == "" {
		errs = append(errs, "OPENAI_TOKEN is required when mocks are disabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
