package telegram

import (
	"context"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/YelzhanWeb/chefmenu/internal/config"
	"github.com/YelzhanWeb/chefmenu/internal/interfaces"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type notifier struct {
	bot    sender
	chatID int64
}

// NewNotifier logs in with the bot token and sends every notification to
// the configured chat.
func NewNotifier(cfg config.TelegramConfig) (interfaces.Notifier, error) {
	return newNotifier(cfg, tgbotapi.APIEndpoint, http.DefaultClient)
}

func newNotifier(cfg config.TelegramConfig, endpoint string, client tgbotapi.HTTPClient) (interfaces.Notifier, error) {
	if cfg.Token == "" || cfg.ChatID == 0 {
		return nil, fmt.Errorf("telegram token and chat id are required")
	}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &notifier{bot: bot, chatID: cfg.ChatID}, nil
}

func (n *notifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
