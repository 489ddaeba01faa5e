// internal/infra/discord/bot.go
package discord

import (
	"context"
	"fmt"
	"strconv"

	"votd_bot/internal/domain/chat"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// Bot owns the gateway session and routes the on-demand commands.
type Bot struct {
	session   *discordgo.Session
	handler   chat.OnDemandHandler
	prefix    string
	channelID int64
	logger    *logrus.Entry
	ctx       context.Context
}

// NewBot creates the session for token. handler may be set later with SetHandler
// but must be set before Open.
func NewBot(ctx context.Context, token, prefix string, channelID int64, logger *logrus.Entry) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	return &Bot{
		session:   s,
		prefix:    prefix,
		channelID: channelID,
		logger:    logger,
		ctx:       ctx,
	}, nil
}

// Sink returns the channel sink backed by this session.
func (b *Bot) Sink() *SessionAdapter {
	return NewSessionAdapter(b.session)
}

func (b *Bot) SetHandler(h chat.OnDemandHandler) {
	b.handler = h
}

// Open registers handlers and connects to the gateway.
func (b *Bot) Open() error {
	if b.handler == nil {
		return fmt.Errorf("discord bot: on-demand handler not set")
	}
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.WithFields(logrus.Fields{
		"user":       r.User.String(),
		"user_id":    r.User.ID,
		"channel_id": b.channelID,
	}).Info("Logged in to Discord")

	_, err := s.ApplicationCommandCreate(r.User.ID, "", &discordgo.ApplicationCommand{
		Name:        chat.CommandName,
		Description: "Send today's verse of the day",
	})
	if err != nil {
		b.logger.WithError(err).Warn("Could not register /votd slash command")
	}
}

// commandSession is the subset of *discordgo.Session used by the command handlers.
type commandSession interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

const slashReply = "Here’s today’s verse 👇"

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.handleMessage(s, m)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handleInteraction(s, i)
}

// handleMessage serves the prefix command. Messages from bot accounts,
// including this one, are ignored.
func (b *Bot) handleMessage(s commandSession, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !chat.IsPrefixCommand(m.Content, b.prefix) {
		return
	}

	logCtx := b.logger.WithFields(logrus.Fields{
		"command":    b.prefix + chat.CommandName,
		"channel_id": m.ChannelID,
		"sender_id":  m.Author.ID,
	})
	logCtx.Info("Processing verse command")

	notice := chat.FailureNotice
	channelID, err := strconv.ParseInt(m.ChannelID, 10, 64)
	if err != nil {
		logCtx.WithError(err).Error("Unparseable channel ID")
	} else if notice, err = b.handler.HandleOnDemand(b.ctx, channelID); err == nil {
		return
	}

	if _, sendErr := s.ChannelMessageSend(m.ChannelID, notice); sendErr != nil {
		logCtx.WithError(sendErr).Error("Could not send failure notice")
	}
}

// handleInteraction serves /votd: acknowledge first, then edit the deferred
// response with a short confirmation or the failure notice.
func (b *Bot) handleInteraction(s commandSession, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand || i.ApplicationCommandData().Name != chat.CommandName {
		return
	}

	logCtx := b.logger.WithFields(logrus.Fields{
		"command":    "/" + chat.CommandName,
		"channel_id": i.ChannelID,
	})
	// The fetch may outlast Discord's 3s interaction deadline.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		logCtx.WithError(err).Error("Could not acknowledge interaction")
		return
	}

	reply := slashReply
	channelID, err := strconv.ParseInt(i.ChannelID, 10, 64)
	if err != nil {
		logCtx.WithError(err).Error("Unparseable channel ID")
		reply = chat.FailureNotice
	} else if notice, err := b.handler.HandleOnDemand(b.ctx, channelID); err != nil {
		reply = notice
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &reply}); err != nil {
		logCtx.WithError(err).Error("Could not edit interaction response")
	}
}
