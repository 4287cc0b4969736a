package chat

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	chatmodel "github.com/ethicallogix/hasi/internal/model/chat"
	"github.com/ethicallogix/hasi/internal/service/video"
	"github.com/ethicallogix/hasi/internal/storage"
)

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, query string) (string, error) {
	f.prompts = append(f.prompts, query)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeProvider struct {
	queries []string
}

func (f *fakeProvider) Search(_ context.Context, query string, max int) []video.Video {
	f.queries = append(f.queries, query)
	return video.Fallback(query, max)
}

func newTestOrchestrator(t *testing.T, completer *fakeCompleter, provider *fakeProvider) *Orchestrator {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "conversations.json"))
	require.NoError(t, err)
	return NewOrchestrator(store, provider, completer, 3)
}

func TestChatPlainMessage(t *testing.T) {
	completer := &fakeCompleter{reply: "Ownership moves values between **owners**."}
	provider := &fakeProvider{}
	o := newTestOrchestrator(t, completer, provider)

	response, err := o.Chat(context.Background(), "tell me about rust ownership")
	require.NoError(t, err)

	// no video involvement on a plain message
	require.Empty(t, provider.queries)
	require.NotContains(t, response, "🎥")

	// sanitized output
	require.Equal(t, "Ownership moves values between owners.", response)

	// exactly two turns persisted, human first
	history := o.History()
	require.Len(t, history, 2)
	require.Equal(t, chatmodel.RoleHuman, history[0].Role)
	require.Equal(t, "tell me about rust ownership", history[0].Content)
	require.Equal(t, chatmodel.RoleAssistant, history[1].Role)
	require.Equal(t, response, history[1].Content)
}

func TestChatVideoRequest(t *testing.T) {
	completer := &fakeCompleter{reply: "Those should get you started."}
	provider := &fakeProvider{}
	o := newTestOrchestrator(t, completer, provider)

	response, err := o.Chat(context.Background(), "can you show me a video about sorting algorithms")
	require.NoError(t, err)

	require.Equal(t, []string{"sorting algorithms"}, provider.queries)
	require.Contains(t, response, "🎥 I found")
	require.Contains(t, response, "Those should get you started.")

	// the prompt carried the formatted block
	require.Len(t, completer.prompts, 1)
	require.Contains(t, completer.prompts[0], "Sorting Algorithms Tutorial")
}

func TestChatCompleterFailureStillPersistsTurn(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("upstream unavailable")}
	o := newTestOrchestrator(t, completer, &fakeProvider{})

	response, err := o.Chat(context.Background(), "tell me a story")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(response, "Sorry, I encountered an error:"))

	history := o.History()
	require.Len(t, history, 2)
	require.Equal(t, "tell me a story", history[0].Content)
	require.Equal(t, response, history[1].Content)
}

func TestChatEmptyMessage(t *testing.T) {
	o := newTestOrchestrator(t, &fakeCompleter{reply: "x"}, &fakeProvider{})

	_, err := o.Chat(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)
	require.Empty(t, o.History())
}

func TestChatCarriesContextIntoPrompt(t *testing.T) {
	completer := &fakeCompleter{reply: "sure"}
	o := newTestOrchestrator(t, completer, &fakeProvider{})

	_, err := o.Chat(context.Background(), "my name is Ada")
	require.NoError(t, err)
	_, err = o.Chat(context.Background(), "what is my name?")
	require.NoError(t, err)

	require.Len(t, completer.prompts, 2)
	second := completer.prompts[1]
	require.Contains(t, second, "Recent conversation context:")
	require.Contains(t, second, "You: my name is Ada")
	require.Contains(t, second, "Hasi: sure")

	// first turn had no history yet
	require.NotContains(t, completer.prompts[0], "Recent conversation context:")
}

func TestNewSessionClearsContext(t *testing.T) {
	completer := &fakeCompleter{reply: "noted"}
	o := newTestOrchestrator(t, completer, &fakeProvider{})

	_, err := o.Chat(context.Background(), "remember the milk")
	require.NoError(t, err)

	o.NewSession()
	require.Empty(t, o.History())

	_, err = o.Chat(context.Background(), "hello again")
	require.NoError(t, err)
	require.NotContains(t, completer.prompts[1], "remember the milk")
}

func TestLoadSessionRoundTrip(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	o := newTestOrchestrator(t, completer, &fakeProvider{})

	_, err := o.Chat(context.Background(), "first session message")
	require.NoError(t, err)
	o.NewSession()

	require.False(t, o.LoadSession(99))
	require.True(t, o.LoadSession(1))
	require.Equal(t, "first session message", o.History()[0].Content)
}
