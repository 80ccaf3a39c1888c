package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/askpdf/askpdf-backend/internal/config"
	"github.com/askpdf/askpdf-backend/internal/entity"
	"github.com/askpdf/askpdf-backend/internal/pkg/validator"
	pkghttp "github.com/askpdf/askpdf-backend/pkg/http"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const startMessage = "Send me a PDF or DOCX file and I will index it. " +
	"After that, ask questions in plain text and I will answer from the document."

type IngestUsecase interface {
	IngestDocument(ctx context.Context, filename string, data []byte) (*entity.IngestResult, error)
}

type AnswerUsecase interface {
	Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskResponse, error)
}

// chatState pins a chat to its current document and running session.
type chatState struct {
	DocumentID string
	SessionID  string
}

// Bot is a thin Telegram front door to the ingestion and answer
// pipelines: one document per chat, questions answered against it.
type Bot struct {
	api           *tgbotapi.BotAPI
	ingestUC      IngestUsecase
	answerUC      AnswerUsecase
	uploadCfg     config.FileUploadConfig
	states        *gocache.Cache
	files         *http.Client
	updateTimeout int
	logger        *zap.Logger
}

func NewBot(
	cfg *config.TelegramConfig,
	uploadCfg config.FileUploadConfig,
	ingestUC IngestUsecase,
	answerUC AnswerUsecase,
	logger *zap.Logger,
) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_BOT_TOKEN", entity.ErrMissingField)
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	logger.Info("telegram bot authorized", zap.String("username", api.Self.UserName))

	return &Bot{
		api:           api,
		ingestUC:      ingestUC,
		answerUC:      answerUC,
		uploadCfg:     uploadCfg,
		states:        gocache.New(24*time.Hour, time.Hour),
		files:         pkghttp.NewClient(pkghttp.WithRequestTimeout(60 * time.Second)),
		updateTimeout: cfg.UpdateTimeout,
		logger:        logger,
	}, nil
}

// Start runs the long-polling loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.updateTimeout

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// Stop shuts down the update channel. Safe to call once.
func (b *Bot) Stop() error {
	b.api.StopReceivingUpdates()
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	ctx = ctxzap.ToContext(ctx, b.logger.With(zap.Int64("chat_id", msg.Chat.ID)))

	switch {
	case msg.IsCommand():
		b.reply(msg.Chat.ID, startMessage)
	case msg.Document != nil:
		b.handleDocument(ctx, msg)
	case strings.TrimSpace(msg.Text) != "":
		b.handleQuestion(ctx, msg)
	}
}

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	doc := msg.Document

	ext := strings.ToLower(filepath.Ext(doc.FileName))
	if !validator.AllowedExtensions[ext] {
		b.reply(msg.Chat.ID, "I can only read PDF and DOCX files.")
		return
	}
	if int64(doc.FileSize) > b.uploadCfg.MaxFileSize {
		b.reply(msg.Chat.ID, "That file is too large for me to index.")
		return
	}

	data, err := b.downloadFile(ctx, doc.FileID)
	if err != nil {
		ctxzap.Error(ctx, "failed to download document", zap.Error(err))
		b.reply(msg.Chat.ID, "I couldn't download that file, please try again.")
		return
	}

	result, err := b.ingestUC.IngestDocument(ctx, doc.FileName, data)
	if err != nil {
		ctxzap.Error(ctx, "failed to ingest document", zap.Error(err))
		b.reply(msg.Chat.ID, "I couldn't extract any text from that file.")
		return
	}

	b.states.SetDefault(chatKey(msg.Chat.ID), &chatState{DocumentID: result.DocumentID})

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"Indexed %q into %d chunks. Ask me anything about it.",
		doc.FileName, result.ChunkCount,
	))
}

func (b *Bot) handleQuestion(ctx context.Context, msg *tgbotapi.Message) {
	state := b.chatState(msg.Chat.ID)
	if state.DocumentID == "" {
		b.reply(msg.Chat.ID, "Send me a document first, then ask your question.")
		return
	}

	typing := tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)
	b.api.Send(typing)

	resp, err := b.answerUC.Ask(ctx, &entity.AskRequest{
		Question:   msg.Text,
		DocumentID: state.DocumentID,
		SessionID:  state.SessionID,
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to answer question", zap.Error(err))
		b.reply(msg.Chat.ID, "Something went wrong while answering, please try again.")
		return
	}

	state.SessionID = resp.SessionID
	b.states.SetDefault(chatKey(msg.Chat.ID), state)

	b.reply(msg.Chat.ID, resp.Answer)
}

func (b *Bot) chatState(chatID int64) *chatState {
	if v, ok := b.states.Get(chatKey(chatID)); ok {
		return v.(*chatState)
	}
	return &chatState{}
}

func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}

	resp, err := b.files.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, b.uploadCfg.MaxFileSize+1))
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("failed to send telegram message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

func chatKey(chatID int64) string {
	return fmt.Sprintf("chat:%d", chatID)
}
