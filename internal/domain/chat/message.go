// internal/domain/chat/message.go
package chat

import (
	"strings"

	"votd_bot/internal/domain/verse"
)

const (
	DefaultHeader = "📖 Verse of the Day"
	DefaultFooter = "Verse of the Day"
	linkIntro     = "Here’s today’s verse from the Bible App:"
)

// Message is a platform-neutral outbound message. Sinks render it as an
// embed or as plain text.
type Message struct {
	Header      string
	Text        string
	Attribution string
	ImageURL    string
	Link        string
	Footer      string
}

// NewVerseMessage builds the outbound message for c.
func NewVerseMessage(c *verse.Content) Message {
	msg := Message{
		Header:   DefaultHeader,
		Text:     c.Text,
		ImageURL: c.ImageURL,
		Link:     c.Link,
		Footer:   DefaultFooter,
	}
	if c.Reference != "" {
		msg.Attribution = c.Reference
		if c.Version != "" {
			msg.Attribution += " (" + c.Version + ")"
		}
	}
	return msg
}

// PlainText renders msg as markdown-light text: bold header, quoted verse,
// attribution, then link and footer.
func (m Message) PlainText() string {
	var b strings.Builder
	b.WriteString("**" + m.Header + "**\n")
	if m.Text != "" {
		for _, line := range strings.Split(strings.TrimSpace(m.Text), "\n") {
			b.WriteString("> " + line + "\n")
		}
		if m.Attribution != "" {
			b.WriteString("— " + m.Attribution + "\n")
		}
	} else if m.Link != "" {
		b.WriteString(linkIntro + "\n")
	}
	if m.Link != "" {
		b.WriteString(m.Link + "\n")
	}
	if m.ImageURL != "" && m.ImageURL != m.Link {
		b.WriteString(m.ImageURL + "\n")
	}
	if m.Footer != "" {
		b.WriteString("_" + m.Footer + "_")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FailureNotice is the generic reply sent when an on-demand request fails.
const FailureNotice = "Sorry, I couldn't fetch the verse of the day right now. Please try again later."
