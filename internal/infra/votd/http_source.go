// internal/infra/votd/http_source.go
package votd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"votd_bot/internal/domain/verse"
)

const maxBodyBytes = 1 << 20

// HTTPSource fetches the verse of the day from a JSON endpoint in the
// OurManna format: {"verse":{"details":{"text","reference","version","verseurl"}}}.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource returns a source for url. Requests are bounded by timeout
// in addition to any deadline on the caller's context.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type mannaResponse struct {
	Verse *struct {
		Details struct {
			Text      string `json:"text"`
			Reference string `json:"reference"`
			Version   string `json:"version"`
			VerseURL  string `json:"verseurl"`
			Image     string `json:"image"`
		} `json:"details"`
	} `json:"verse"`
}

// Fetch implements verse.Source.
func (s *HTTPSource) Fetch(ctx context.Context) (*verse.Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &verse.FetchError{URL: s.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &verse.FetchError{URL: s.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &verse.FetchError{URL: s.url, Status: resp.StatusCode}
	}

	var payload mannaResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, &verse.FetchError{URL: s.url, Err: fmt.Errorf("decode payload: %w", err)}
	}
	if payload.Verse == nil {
		return nil, &verse.FetchError{URL: s.url, Err: fmt.Errorf("payload has no verse: %w", verse.ErrEmptyContent)}
	}

	d := payload.Verse.Details
	content := &verse.Content{
		Text:      strings.TrimSpace(d.Text),
		Reference: strings.TrimSpace(d.Reference),
		Version:   strings.TrimSpace(d.Version),
		ImageURL:  strings.TrimSpace(d.Image),
		Link:      strings.TrimSpace(d.VerseURL),
	}
	if content.Text == "" {
		return nil, &verse.FetchError{URL: s.url, Err: fmt.Errorf("payload has no text: %w", verse.ErrEmptyContent)}
	}
	return content, nil
}

// StaticSource always returns the same link, without network access.
type StaticSource struct {
	link string
}

func NewStaticSource(link string) *StaticSource {
	return &StaticSource{link: link}
}

// Fetch implements verse.Source.
func (s *StaticSource) Fetch(ctx context.Context) (*verse.Content, error) {
	return &verse.Content{Link: s.link}, nil
}
