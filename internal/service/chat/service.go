package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/ethicallogix/hasi/internal/analysis/intent"
	"github.com/ethicallogix/hasi/internal/analysis/sanitize"
	chatmodel "github.com/ethicallogix/hasi/internal/model/chat"
	"github.com/ethicallogix/hasi/internal/service/video"
	"github.com/ethicallogix/hasi/internal/storage"
)

var ErrEmptyMessage = errors.New("message must not be empty")

// clarificationMessage is returned when a video request carries no usable
// search topic; the completion provider is not called in that case.
const clarificationMessage = "I'd be happy to help you find videos! Could you please specify what topic or subject you'd like to see videos about?"

// Completer turns an assembled prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, query string) (string, error)
}

// VideoProvider resolves a search query into video descriptors. It never
// fails; providers degrade to synthetic results internally.
type VideoProvider interface {
	Search(ctx context.Context, query string, max int) []video.Video
}

// Orchestrator composes intent detection, video search, completion,
// sanitization and persistence into one Chat operation. It keeps a small
// cache of recent messages for prompt context, refreshed from the store
// after every turn.
type Orchestrator struct {
	store     *storage.ConversationStore
	videos    VideoProvider
	completer Completer
	maxVideos int

	mu      sync.Mutex
	context []chatmodel.Message
}

// NewOrchestrator wires the orchestrator and primes the context cache from
// the store.
func NewOrchestrator(store *storage.ConversationStore, videos VideoProvider, completer Completer, maxVideos int) *Orchestrator {
	if maxVideos <= 0 {
		maxVideos = 3
	}
	o := &Orchestrator{
		store:     store,
		videos:    videos,
		completer: completer,
		maxVideos: maxVideos,
	}
	o.refreshContext()
	return o
}

// Chat runs one conversation turn: classify intent, optionally search
// videos, invoke the completion provider, sanitize, persist both turns.
// Provider failures never surface as errors; they become a synthetic
// assistant turn so the log keeps the user's message.
func (o *Orchestrator) Chat(ctx context.Context, userText string) (string, error) {
	text := strings.TrimSpace(userText)
	if text == "" {
		return "", ErrEmptyMessage
	}

	var response string
	if intent.DetectVideoRequest(text) {
		log.Printf("[chat] video request detected: %q", text)
		query := strings.TrimSpace(intent.ExtractSearchQuery(text))
		if query == "" {
			response = clarificationMessage
		} else {
			log.Printf("[chat] search query: %q", query)
			results := o.videos.Search(ctx, query, o.maxVideos)
			block := video.FormatResults(results)

			reply, err := o.completer.Complete(ctx, o.buildVideoPrompt(text, block))
			if err != nil {
				return o.failTurn(text, err), nil
			}
			response = block + "\n\n" + reply
		}
	} else {
		reply, err := o.completer.Complete(ctx, o.buildPrompt(text))
		if err != nil {
			return o.failTurn(text, err), nil
		}
		response = reply
	}

	response = sanitize.Response(response)
	o.commitTurn(text, response)
	return response, nil
}

// failTurn records the user's message together with a synthetic error reply.
func (o *Orchestrator) failTurn(userText string, err error) string {
	log.Printf("[chat] completion failed: %v", err)
	response := "Sorry, I encountered an error: " + err.Error()
	o.commitTurn(userText, response)
	return response
}

// commitTurn appends the human turn then the assistant turn, in that order,
// and refreshes the context cache.
func (o *Orchestrator) commitTurn(userText, response string) {
	o.store.Append(chatmodel.RoleHuman, userText)
	o.store.Append(chatmodel.RoleAssistant, response)
	o.refreshContext()
}

func (o *Orchestrator) refreshContext() {
	recent := o.store.Recent(contextWindow)
	o.mu.Lock()
	o.context = recent
	o.mu.Unlock()
}

// History returns the current session's messages.
func (o *Orchestrator) History() []chatmodel.Message {
	return o.store.History()
}

// Sessions lists all sessions for the sidebar.
func (o *Orchestrator) Sessions() []chatmodel.SessionSummary {
	return o.store.Sessions()
}

// LoadSession switches the current session and refreshes the prompt context.
func (o *Orchestrator) LoadSession(id int) bool {
	if !o.store.LoadSession(id) {
		return false
	}
	o.refreshContext()
	return true
}

// NewSession starts a fresh session and clears the prompt context.
func (o *Orchestrator) NewSession() {
	o.store.StartNewSession()
	o.refreshContext()
}

// Stats reports store statistics.
func (o *Orchestrator) Stats() chatmodel.Stats {
	return o.store.Stats()
}

// Document returns the full persisted store snapshot.
func (o *Orchestrator) Document() chatmodel.Document {
	return o.store.Document()
}
