// Package notify sends operator notifications when the process shuts down.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	telebot "gopkg.in/telebot.v3"
)

// Sender is the subset of telebot.Bot the notifier uses.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Telegram notifies an operator chat about shutdown. NotifyShutdown has the
// shutdown.HookFunc signature and is registered as a coordinator hook.
type Telegram struct {
	sender Sender
	chat   telebot.ChatID
	log    *slog.Logger
}

// NewTelegram builds a notifier for the given bot token and chat.
func NewTelegram(token string, chatID int64, log *slog.Logger) (*Telegram, error) {
	if log == nil {
		log = slog.Default()
	}

	bot, err := telebot.NewBot(telebot.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	return &Telegram{
		sender: bot,
		chat:   telebot.ChatID(chatID),
		log:    log,
	}, nil
}

// NotifyShutdown sends a shutdown notice to the operator chat.
func (t *Telegram) NotifyShutdown(ctx context.Context) error {
	_ = ctx

	host, err := os.Hostname()
	if err != nil {
		host = "unknown-host"
	}

	message := fmt.Sprintf("lastcall: %s is shutting down", host)

	if _, err := t.sender.Send(t.chat, message); err != nil {
		return fmt.Errorf("send shutdown notice: %w", err)
	}

	t.log.Info("shutdown notice sent", slog.Int64("chat_id", int64(t.chat)))

	return nil
}
