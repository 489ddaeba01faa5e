package votd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"votd_bot/internal/domain/verse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"verse":{"details":{"text":" The LORD is my shepherd; I shall not want. ","reference":"Psalm 23:1","version":"KJV","verseurl":"http://www.ourmanna.com/"},"notice":"Powered by OurManna.com"}}`))
	}))
	defer srv.Close()

	content, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "The LORD is my shepherd; I shall not want.", content.Text)
	assert.Equal(t, "Psalm 23:1", content.Reference)
	assert.Equal(t, "KJV", content.Version)
	assert.Equal(t, "http://www.ourmanna.com/", content.Link)
}

func TestHTTPSourceNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background())
	var fe *verse.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusServiceUnavailable, fe.Status)
}

func TestHTTPSourceMalformedPayload(t *testing.T) {
	for name, body := range map[string]string{
		"not json": `<html>oops</html>`,
		"no verse": `{"notice":"nothing today"}`,
		"no text":  `{"verse":{"details":{"text":"","reference":"John 1:1"}}}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background())
			var fe *verse.FetchError
			require.True(t, errors.As(err, &fe))
			assert.Zero(t, fe.Status)
		})
	}
}

func TestHTTPSourceTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPSource(srv.URL, 50*time.Millisecond).Fetch(context.Background())
	var fe *verse.FetchError
	require.True(t, errors.As(err, &fe))
}

func TestStaticSource(t *testing.T) {
	content, err := NewStaticSource("https://www.bible.com/verse-of-the-day").Fetch(context.Background())
	require.NoError(t, err)
	assert.NoError(t, content.Validate())
	assert.Equal(t, "https://www.bible.com/verse-of-the-day", content.Link)
	assert.Empty(t, content.Text)
}
