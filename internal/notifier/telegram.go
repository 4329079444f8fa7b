package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"noteboard/internal/config"
)

// Telegram sends security events to a configured chat.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegram creates the Telegram notifier, or a Nop when notifications are
// disabled or no bot token is configured.
func NewTelegram(cfg *config.Config, logger *zap.Logger) (Notifier, error) {
	if !cfg.Notifications.Enabled || cfg.Notifications.TelegramBotToken == "" {
		logger.Info("Security notifications are disabled (notifications.enabled=false or token is empty)")
		return Nop{}, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Notifications.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized", zap.String("username", botAPI.Self.UserName))

	return &Telegram{
		api:    botAPI,
		chatID: cfg.Notifications.ChatID,
		logger: logger,
	}, nil
}

func (t *Telegram) Notify(_ context.Context, event Event) {
	text := fmt.Sprintf("%s\nuser #%d (%s)", describe(event.Kind), event.UserID, event.Email)
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		t.logger.Error("Failed to send security notification",
			zap.String("kind", event.Kind),
			zap.Int64("user_id", event.UserID),
			zap.Error(err),
		)
	}
}

func describe(kind string) string {
	switch kind {
	case KindPasswordChanged:
		return "🔑 Password changed"
	case KindMFAEnabled:
		return "🛡 MFA device enrolled"
	case KindMFADisabled:
		return "⚠️ MFA device removed"
	case KindAccountDeleted:
		return "🗑 Account deleted"
	default:
		return kind
	}
}
