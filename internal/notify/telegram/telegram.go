package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier sends reminder digests to a single configured chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func New(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	slog.Info("Telegram notifier ready", "account", bot.Self.UserName)
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// Send delivers an HTML-formatted message to the configured chat.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	slog.InfoContext(ctx, "Reminder sent", "chat_id", n.chatID, "length", len(text))
	return nil
}
