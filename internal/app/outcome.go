// internal/app/outcome.go
package app

import (
	"errors"

	"votd_bot/internal/domain/chat"
	"votd_bot/internal/domain/verse"
)

// Delivery outcomes.
const (
	OutcomeSent          = "sent"
	OutcomeFetchFailed   = "fetch_failed"
	OutcomeNoDestination = "destination_not_found"
	OutcomeSendFailed    = "send_failed"
)

// outcomeOf classifies a Deliver error. Only errors from the fetch step carry
// a *verse.FetchError.
func outcomeOf(err error) string {
	var fe *verse.FetchError
	switch {
	case errors.As(err, &fe):
		return OutcomeFetchFailed
	case errors.Is(err, chat.ErrDestinationNotFound):
		return OutcomeNoDestination
	default:
		return OutcomeSendFailed
	}
}
