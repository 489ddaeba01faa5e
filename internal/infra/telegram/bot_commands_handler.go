// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"

	"votd_bot/internal/domain/chat"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const helpText = "I post the verse of the day here every morning.\n\n" +
	"/votd - Send today's verse now.\n" +
	"/help - Show this message."

func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	handler chat.OnDemandHandler,
	prefix string,
	baseLogger *logrus.Entry, // For contextual logging
) {
	onDemand := onDemandHandler(ctx, handler, baseLogger.WithField("handler_group", "votd"))

	b.Handle("/"+chat.CommandName, onDemand)
	b.Handle(telebot.OnText, prefixCommand(prefix, onDemand))

	b.Handle("/start", func(c telebot.Context) error {
		return c.Send(helpText)
	})
	b.Handle("/help", func(c telebot.Context) error {
		return c.Send(helpText)
	})
}

// onDemandHandler delivers the verse to the invoking chat and replies with
// the failure notice when delivery fails.
func onDemandHandler(ctx context.Context, handler chat.OnDemandHandler, cmdLogger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		logCtx := cmdLogger.WithFields(logrus.Fields{
			"command": c.Text(),
			"chat_id": c.Chat().ID,
		})
		if c.Sender() != nil {
			logCtx = logCtx.WithField("sender_id", c.Sender().ID)
		}
		logCtx.Info("Processing verse command")

		notice, err := handler.HandleOnDemand(ctx, c.Chat().ID)
		if err != nil {
			return c.Send(notice)
		}
		return nil
	}
}

// prefixCommand passes plain-text messages like "!votd" from human senders to next.
func prefixCommand(prefix string, next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		if sender := c.Sender(); sender != nil && sender.IsBot {
			return nil
		}
		if !chat.IsPrefixCommand(c.Text(), prefix) {
			return nil
		}
		return next(c)
	}
}
