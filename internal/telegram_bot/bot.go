package telegram_bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"engagement-tracker/internal/models"
)

// Handler consumes normalized chat messages.
type Handler interface {
	Handle(ctx context.Context, msg *models.Message)
}

// Bot polls Telegram for updates and feeds them to a Handler one at a time.
type Bot struct {
	api         *tgbotapi.BotAPI
	handler     Handler
	logger      *zap.Logger
	pollTimeout int
}

// NewBot creates a new Telegram bot instance
func NewBot(api *tgbotapi.BotAPI, handler Handler, pollTimeout int, logger *zap.Logger) *Bot {
	if pollTimeout <= 0 {
		pollTimeout = 60
	}
	return &Bot{
		api:         api,
		handler:     handler,
		logger:      logger,
		pollTimeout: pollTimeout,
	}
}

// Connect authorizes the token against the Bot API.
func Connect(token string, debug bool, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}
	api.Debug = debug

	logger.Info("Telegram bot authorized", zap.String("username", api.Self.UserName))
	return api, nil
}

// Start begins listening for updates from Telegram
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Telegram bot started, waiting for updates...")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Telegram bot shutting down...")
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate converts a single update and passes it on. Updates without a
// message or sender are dropped.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg, ok := ConvertMessage(update.Message)
	if !ok {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from handler panic",
				zap.Int64("chat_id", msg.Chat.ID),
				zap.Int("message_id", msg.ID),
				zap.Any("panic", r),
			)
		}
	}()
	b.handler.Handle(ctx, msg)
}
