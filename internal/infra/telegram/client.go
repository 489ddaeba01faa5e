// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"votd_bot/internal/domain/chat"

	"gopkg.in/telebot.v3"
)

// sender is the subset of *telebot.Bot used for delivery.
type sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelebotAdapter implements chat.Sink using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot sender
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// Send delivers msg to the chat with the given ID as HTML text.
func (tba *TelebotAdapter) Send(ctx context.Context, chatID int64, msg chat.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	recipient := &telebot.Chat{ID: chatID}
	_, err := tba.bot.Send(recipient, RenderHTML(msg), &telebot.SendOptions{ParseMode: telebot.ModeHTML})
	if err != nil {
		if errors.Is(err, telebot.ErrChatNotFound) {
			return fmt.Errorf("telegram chat %d: %w", chatID, chat.ErrDestinationNotFound)
		}
		return fmt.Errorf("telegram send to %d: %w", chatID, err)
	}
	return nil
}

// RenderHTML formats msg for Telegram's HTML parse mode.
func RenderHTML(msg chat.Message) string {
	var b strings.Builder
	b.WriteString("<b>" + html.EscapeString(msg.Header) + "</b>\n")
	if msg.Text != "" {
		b.WriteString("<blockquote>" + html.EscapeString(strings.TrimSpace(msg.Text)) + "</blockquote>\n")
		if msg.Attribution != "" {
			b.WriteString("— <i>" + html.EscapeString(msg.Attribution) + "</i>\n")
		}
	}
	if msg.Link != "" {
		b.WriteString(html.EscapeString(msg.Link) + "\n")
	}
	if msg.ImageURL != "" && msg.ImageURL != msg.Link {
		b.WriteString(html.EscapeString(msg.ImageURL) + "\n")
	}
	if msg.Footer != "" {
		b.WriteString("<i>" + html.EscapeString(msg.Footer) + "</i>")
	}
	return strings.TrimRight(b.String(), "\n")
}
