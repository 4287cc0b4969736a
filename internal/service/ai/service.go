package ai

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/ethicallogix/hasi/internal/config"
)

// systemPrompt is the fixed Hasi persona preamble sent with every request.
const systemPrompt = "You are an Ethicallogix AI assistant named Hasi made by Ethicallogix. " +
	"You are helpful, friendly and concise, and you answer with the conversation context in mind."

// Service is the completion provider: it turns an assembled prompt into
// generated text through the configured Ark chat model.
type Service struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	timeout time.Duration
}

// NewService compiles the prompt → model chain.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	template := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(template)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile chat chain: %w", err)
	}

	return &Service{chain: runnable, timeout: cfg.Timeout}, nil
}

// Complete invokes the model with a bounded timeout and returns its text.
func (s *Service) Complete(ctx context.Context, query string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	response, err := s.chain.Invoke(ctx, map[string]any{
		"system": systemPrompt,
		"query":  query,
	})
	if err != nil {
		return "", fmt.Errorf("run completion chain: %w", err)
	}

	log.Printf("[ai] completion generated, length=%d", len(response.Content))
	return response.Content, nil
}
