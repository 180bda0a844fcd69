package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"
)

type fakeSender struct {
	to   telebot.Recipient
	what interface{}
	err  error
}

func (f *fakeSender) Send(to telebot.Recipient, what interface{}, _ ...interface{}) (*telebot.Message, error) {
	f.to = to
	f.what = what
	if f.err != nil {
		return nil, f.err
	}
	return &telebot.Message{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifyShutdown_SendsToConfiguredChat(t *testing.T) {
	sender := &fakeSender{}
	tg := &Telegram{sender: sender, chat: telebot.ChatID(4242), log: testLogger()}

	require.NoError(t, tg.NotifyShutdown(context.Background()))

	assert.Equal(t, telebot.ChatID(4242), sender.to)
	assert.Contains(t, sender.what.(string), "is shutting down")
}

func TestNotifyShutdown_PropagatesSendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("telegram unreachable")}
	tg := &Telegram{sender: sender, chat: telebot.ChatID(1), log: testLogger()}

	err := tg.NotifyShutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send shutdown notice")
}
