package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOllamaURL is the standard local Ollama endpoint.
const DefaultOllamaURL = "http://localhost:11434"

// implements Summarizer against a locally-hosted Ollama server
type OllamaSummarizer struct {
	endpoint string
	model    string
	client   *http.Client
	options  Options
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func NewOllamaSummarizer(opts Options) (*OllamaSummarizer, error) {
	endpoint := strings.TrimRight(opts.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultOllamaURL
	}

	model := opts.Model
	if model == "" {
		model = "llama3.1:8b"
	}

	return &OllamaSummarizer{
		endpoint: endpoint,
		model:    model,
		// local generation on CPU can be slow for long meetings
		client:  &http.Client{Timeout: 5 * time.Minute},
		options: opts,
	}, nil
}

func (s *OllamaSummarizer) Summarize(
	ctx context.Context,
	transcript string,
) (*Result, error) {
	return runPrompts(ctx, s.generate, transcript, s.options)
}

func (s *OllamaSummarizer) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:  s.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.endpoint+"/api/generate",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ollama response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"ollama returned status %d: %s",
			resp.StatusCode,
			strings.TrimSpace(string(data)),
		)
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse ollama response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("ollama error: %s", parsed.Error)
	}
	if parsed.Response == "" {
		return "", fmt.Errorf("empty response from ollama")
	}

	return parsed.Response, nil
}
