package telegram

import (
	"context"
	"errors"
	"testing"

	"votd_bot/internal/domain/chat"
	"votd_bot/internal/domain/verse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

type fakeSender struct {
	err  error
	to   telebot.Recipient
	what interface{}
	opts []interface{}
}

func (f *fakeSender) Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	f.to, f.what, f.opts = to, what, opts
	if f.err != nil {
		return nil, f.err
	}
	return &telebot.Message{}, nil
}

func TestTelebotAdapterSend(t *testing.T) {
	fs := &fakeSender{}
	adapter := &TelebotAdapter{bot: fs}

	msg := chat.NewVerseMessage(&verse.Content{Text: "Love is patient <and> kind", Reference: "1 Corinthians 13:4"})
	require.NoError(t, adapter.Send(context.Background(), -100123, msg))

	assert.Equal(t, "-100123", fs.to.Recipient())
	text, ok := fs.what.(string)
	require.True(t, ok)
	assert.Contains(t, text, "<blockquote>Love is patient &lt;and&gt; kind</blockquote>")
	assert.Contains(t, text, "— <i>1 Corinthians 13:4</i>")
	require.Len(t, fs.opts, 1)
	assert.Equal(t, telebot.ModeHTML, fs.opts[0].(*telebot.SendOptions).ParseMode)
}

func TestTelebotAdapterMapsChatNotFound(t *testing.T) {
	adapter := &TelebotAdapter{bot: &fakeSender{err: telebot.ErrChatNotFound}}
	err := adapter.Send(context.Background(), 1, chat.Message{Header: "h", Text: "t"})
	assert.ErrorIs(t, err, chat.ErrDestinationNotFound)

	other := errors.New("flood control")
	adapter = &TelebotAdapter{bot: &fakeSender{err: other}}
	err = adapter.Send(context.Background(), 1, chat.Message{Header: "h", Text: "t"})
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, chat.ErrDestinationNotFound)
}

func TestTelebotAdapterHonoursCancelledContext(t *testing.T) {
	fs := &fakeSender{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := (&TelebotAdapter{bot: fs}).Send(ctx, 1, chat.Message{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, fs.to)
}
