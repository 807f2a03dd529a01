package summarize

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// implements Summarizer using Anthropic Claude
type AnthropicSummarizer struct {
	client  anthropic.Client
	model   anthropic.Model
	options Options
}

func NewAnthropicSummarizer(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*AnthropicSummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	model := anthropic.Model(opts.Model)
	if opts.Model == "" {
		model = anthropic.ModelClaudeHaiku4_5
	}

	return &AnthropicSummarizer{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

func (s *AnthropicSummarizer) Summarize(
	ctx context.Context,
	transcript string,
) (*Result, error) {
	return runPrompts(ctx, s.generate, transcript, s.options)
}

func (s *AnthropicSummarizer) generate(ctx context.Context, prompt string) (string, error) {
	message, err := s.client.Messages.New(
		ctx,
		anthropic.MessageNewParams{
			Model:     s.model,
			MaxTokens: 4096,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(
					anthropic.NewTextBlock(prompt),
				),
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	if message == nil || len(message.Content) == 0 {
		return "", fmt.Errorf("empty response from Anthropic")
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("no text in Anthropic response")
	}
	return text, nil
}
