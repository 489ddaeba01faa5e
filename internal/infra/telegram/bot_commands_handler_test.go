package telegram

import (
	"context"
	"errors"
	"io"
	"testing"

	"votd_bot/internal/domain/chat"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

// fakeContext implements the parts of telebot.Context the command handlers use.
type fakeContext struct {
	telebot.Context
	text   string
	chat   *telebot.Chat
	sender *telebot.User
	sent   []interface{}
}

func (c *fakeContext) Text() string          { return c.text }
func (c *fakeContext) Chat() *telebot.Chat   { return c.chat }
func (c *fakeContext) Sender() *telebot.User { return c.sender }

func (c *fakeContext) Send(what interface{}, opts ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

type fakeHandler struct {
	err          error
	destinations []int64
}

func (f *fakeHandler) HandleOnDemand(ctx context.Context, destination int64) (string, error) {
	f.destinations = append(f.destinations, destination)
	if f.err != nil {
		return chat.FailureNotice, f.err
	}
	return "", nil
}

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func message(text string) *fakeContext {
	return &fakeContext{
		text:   text,
		chat:   &telebot.Chat{ID: -100123},
		sender: &telebot.User{ID: 7, FirstName: "Ruth"},
	}
}

func TestOnDemandDeliversToInvokingChat(t *testing.T) {
	h := &fakeHandler{}
	c := message("/votd")

	require.NoError(t, onDemandHandler(context.Background(), h, discardLogger())(c))

	assert.Equal(t, []int64{-100123}, h.destinations)
	assert.Empty(t, c.sent)
}

func TestOnDemandRepliesWithFailureNotice(t *testing.T) {
	h := &fakeHandler{err: errors.New("unexpected status 500")}
	c := message("/votd")

	require.NoError(t, onDemandHandler(context.Background(), h, discardLogger())(c))

	assert.Equal(t, []interface{}{chat.FailureNotice}, c.sent)
}

func TestPrefixCommandRouting(t *testing.T) {
	h := &fakeHandler{}
	handle := prefixCommand("!", onDemandHandler(context.Background(), h, discardLogger()))

	require.NoError(t, handle(message("!VOTD")))
	require.NoError(t, handle(message("good morning")))
	require.NoError(t, handle(message("!votdx")))

	fromBot := message("!votd")
	fromBot.sender = &telebot.User{ID: 9, IsBot: true}
	require.NoError(t, handle(fromBot))

	assert.Equal(t, []int64{-100123}, h.destinations)
}
