// internal/domain/verse/verse.go
package verse

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyContent is returned when a source produced neither text nor a link.
var ErrEmptyContent = errors.New("verse content is empty")

// Content is a single verse-of-the-day payload.
type Content struct {
	Text      string
	Reference string
	Version   string // e.g. NIV, optional
	ImageURL  string // optional
	Link      string // optional, e.g. the static Bible App page
}

// Validate reports ErrEmptyContent when there is nothing to show.
func (c *Content) Validate() error {
	if c == nil || (c.Text == "" && c.Link == "") {
		return ErrEmptyContent
	}
	return nil
}

// Source provides the verse of the day.
type Source interface {
	Fetch(ctx context.Context) (*Content, error)
}

// FetchError describes a failed fetch: a transport failure, a non-success
// status (Status != 0) or a malformed payload.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("fetch verse: %v", e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("fetch verse from %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch verse from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
