package transcribe

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hushnote/hushnote/internal/executor"
	"github.com/hushnote/hushnote/internal/segment"
)

//go:embed assets/faster_whisper.py
var whisperScript []byte

// WhisperTranscriber runs faster-whisper locally through an embedded
// python helper. No API key or network access is needed beyond the
// first-time model download done by faster-whisper itself.
type WhisperTranscriber struct {
	options Options
}

// JSON emitted by the helper script
type whisperOutput struct {
	Language            string  `json:"language"`
	LanguageProbability float64 `json:"language_probability"`
	Duration            float64 `json:"duration"`
	Segments            []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func NewWhisperTranscriber(opts Options) (*WhisperTranscriber, error) {
	if opts.Model == "" {
		opts.Model = "base"
	}
	if opts.Device == "" {
		opts.Device = "auto"
	}
	if opts.ComputeType == "" {
		opts.ComputeType = "int8"
	}
	return &WhisperTranscriber{options: opts}, nil
}

func (t *WhisperTranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*segment.Transcription, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	scriptPath := filepath.Join(os.TempDir(), "hushnote_faster_whisper.py")
	if err := os.WriteFile(scriptPath, whisperScript, 0755); err != nil {
		return nil, fmt.Errorf("failed to write helper script: %w", err)
	}
	defer os.Remove(scriptPath)

	python := t.options.Python
	if python == "" {
		python = os.Getenv("HUSHNOTE_PYTHON")
	}
	if python == "" {
		python = "python3"
	}

	args := []string{
		scriptPath,
		"--audio", audioPath,
		"--model", t.options.Model,
		"--device", t.options.Device,
		"--compute-type", t.options.ComputeType,
	}
	if t.options.Language != "" {
		args = append(args, "--language", t.options.Language)
	}

	out, err := executor.Run(ctx, python, args...)
	if err != nil {
		return nil, fmt.Errorf("faster-whisper failed: %w", err)
	}

	var parsed whisperOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse helper output: %w", err)
	}

	segments := make([]segment.Segment, 0, len(parsed.Segments))
	var fullText []string
	for _, s := range parsed.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		segments = append(segments, segment.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  text,
		})
		fullText = append(fullText, text)
	}

	return &segment.Transcription{
		Language:            parsed.Language,
		LanguageProbability: parsed.LanguageProbability,
		Duration:            parsed.Duration,
		Model:               "faster-whisper/" + t.options.Model,
		Segments:            segments,
		Text:                strings.Join(fullText, " "),
	}, nil
}
