// internal/domain/chat/sink.go
package chat

import (
	"context"
	"errors"
	"strings"
)

// ErrDestinationNotFound is returned by a Sink when the destination channel
// does not exist or the bot cannot see it.
var ErrDestinationNotFound = errors.New("destination not found")

// Sink delivers a formatted message to a chat destination.
// This keeps application logic independent of the chat platform library.
type Sink interface {
	Send(ctx context.Context, destination int64, msg Message) error
}

// CommandName is the on-demand command, used as "/votd" or with a prefix ("!votd").
const CommandName = "votd"

// OnDemandHandler serves the on-demand command for a destination. On failure
// it returns a user-safe notice to reply with.
type OnDemandHandler interface {
	HandleOnDemand(ctx context.Context, destination int64) (string, error)
}

// IsPrefixCommand reports whether text starts with the prefixed command, e.g. "!votd".
func IsPrefixCommand(text, prefix string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 || prefix == "" {
		return false
	}
	return strings.EqualFold(fields[0], prefix+CommandName)
}
