package transcribe

import (
	"context"
	"fmt"

	"github.com/hushnote/hushnote/internal/segment"
)

// interface for audio transcription
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*segment.Transcription, error)
}

// transcription engine provider
type Provider string

const (
	ProviderWhisper Provider = "whisper"
	ProviderOpenAI  Provider = "openai"
)

// transcription options
type Options struct {
	Language    string // source language ("" for auto-detect)
	Model       string // model size (whisper) or model name (openai)
	Prompt      string // optional hint prompt
	Device      string // whisper: cpu, cuda, auto
	ComputeType string // whisper: int8, float16, float32
	Python      string // whisper: python interpreter override
}

// creates a transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderWhisper:
		return NewWhisperTranscriber(opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
