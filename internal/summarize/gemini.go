package summarize

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// implements Summarizer using Google Gemini
type GeminiSummarizer struct {
	client  *genai.Client
	model   string
	options Options
}

func NewGeminiSummarizer(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*GeminiSummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiSummarizer{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

func (s *GeminiSummarizer) Summarize(
	ctx context.Context,
	transcript string,
) (*Result, error) {
	return runPrompts(ctx, s.generate, transcript, s.options)
}

func (s *GeminiSummarizer) generate(ctx context.Context, prompt string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var text string
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			text += part.Text
		}
		if text != "" {
			break
		}
	}
	if text == "" {
		return "", fmt.Errorf("no text in Gemini response")
	}
	return text, nil
}
