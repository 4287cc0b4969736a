package chat

import (
	"strings"

	chatmodel "github.com/ethicallogix/hasi/internal/model/chat"
)

const (
	personaName = "Hasi"

	// contextWindow is how many recent messages the orchestrator caches;
	// promptContext is how many of those end up in the prompt transcript.
	contextWindow = 10
	promptContext = 5
)

// contextTranscript renders the cached recent messages as speaker-labelled
// lines for the prompt. Empty when the session has no history yet.
func (o *Orchestrator) contextTranscript() string {
	o.mu.Lock()
	recent := o.context
	o.mu.Unlock()

	if len(recent) == 0 {
		return ""
	}
	if len(recent) > promptContext {
		recent = recent[len(recent)-promptContext:]
	}

	var b strings.Builder
	b.WriteString("\nRecent conversation context:\n")
	for _, msg := range recent {
		speaker := personaName
		if msg.Role == chatmodel.RoleHuman {
			speaker = "You"
		}
		b.WriteString(speaker)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	b.WriteString("\nCurrent conversation:\n")
	return b.String()
}

// buildPrompt assembles the plain conversational prompt.
func (o *Orchestrator) buildPrompt(userText string) string {
	return o.contextTranscript() + "Human: " + userText + "\n\n" + personaName + ":"
}

// buildVideoPrompt assembles the prompt for a video request, embedding the
// formatted search results so the model can weave them into its reply.
func (o *Orchestrator) buildVideoPrompt(userText, videoBlock string) string {
	var b strings.Builder
	b.WriteString("The user asked for videos and here are the search results. ")
	b.WriteString("Provide a helpful response that includes these video links and additional context.\n")
	b.WriteString(o.contextTranscript())
	b.WriteString("Human: ")
	b.WriteString(userText)
	b.WriteString("\n\n")
	b.WriteString(personaName)
	b.WriteString(" (with video search results):\n")
	b.WriteString(videoBlock)
	b.WriteString("\nAdditional response:")
	return b.String()
}
