package summarize

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// implements Summarizer using OpenAI chat completions
type OpenAISummarizer struct {
	client  openai.Client
	model   string
	options Options
}

func NewOpenAISummarizer(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAISummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	// an endpoint override also serves OpenAI-compatible local servers
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.Endpoint))
	}
	client := openai.NewClient(clientOpts...)

	model := opts.Model
	if model == "" {
		model = "gpt-5-mini"
	}

	return &OpenAISummarizer{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

func (s *OpenAISummarizer) Summarize(
	ctx context.Context,
	transcript string,
) (*Result, error) {
	return runPrompts(ctx, s.generate, transcript, s.options)
}

func (s *OpenAISummarizer) generate(ctx context.Context, prompt string) (string, error) {
	completion, err := s.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
			Model: s.model,
		},
	)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	if completion == nil || len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	text := completion.Choices[0].Message.Content
	if text == "" {
		return "", fmt.Errorf("no text in OpenAI response")
	}
	return text, nil
}
