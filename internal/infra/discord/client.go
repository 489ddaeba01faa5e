// internal/infra/discord/client.go
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"votd_bot/internal/domain/chat"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x5865F2

// messageSender is the subset of *discordgo.Session used for delivery.
type messageSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// SessionAdapter implements chat.Sink on a discordgo session.
type SessionAdapter struct {
	session messageSender
}

func NewSessionAdapter(s *discordgo.Session) *SessionAdapter {
	return &SessionAdapter{session: s}
}

// Send posts msg as an embed to the channel with the given snowflake ID.
func (a *SessionAdapter) Send(ctx context.Context, channelID int64, msg chat.Message) error {
	id := strconv.FormatInt(channelID, 10)
	_, err := a.session.ChannelMessageSendComplex(id, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{BuildEmbed(msg)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknownChannel(err) {
			return fmt.Errorf("discord channel %s: %w", id, chat.ErrDestinationNotFound)
		}
		return fmt.Errorf("discord send to %s: %w", id, err)
	}
	return nil
}

// BuildEmbed renders msg as a Discord embed.
func BuildEmbed(msg chat.Message) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: msg.Header,
		URL:   msg.Link,
		Color: embedColor,
	}

	var desc strings.Builder
	if msg.Text != "" {
		for _, line := range strings.Split(strings.TrimSpace(msg.Text), "\n") {
			desc.WriteString("> " + line + "\n")
		}
		if msg.Attribution != "" {
			desc.WriteString("— **" + msg.Attribution + "**")
		}
	} else if msg.Link != "" {
		desc.WriteString("Here’s today’s verse from the Bible App:\n" + msg.Link)
	}
	embed.Description = strings.TrimRight(desc.String(), "\n")

	if msg.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: msg.ImageURL}
	}
	if msg.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: msg.Footer}
	}
	return embed
}

func isUnknownChannel(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeMissingAccess:
			return true
		}
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
