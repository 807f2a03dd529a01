package diarize

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hushnote/hushnote/internal/executor"
	"github.com/hushnote/hushnote/internal/segment"
)

//go:embed assets/pyannote_diarize.py
var diarizeScript []byte

// DefaultModel is the pyannote pipeline used when none is configured.
const DefaultModel = "pyannote/speaker-diarization-3.1"

// diarization options
type Options struct {
	Model       string
	NumSpeakers int // exact speaker count, 0 for auto
	MinSpeakers int
	MaxSpeakers int
	HFToken     string // HuggingFace token for model access
	Python      string // python interpreter override
}

// Diarizer partitions an audio timeline into anonymous speaker segments.
type Diarizer interface {
	Diarize(ctx context.Context, audioPath string) (*segment.Diarization, error)
}

// PyannoteDiarizer runs pyannote.audio through an embedded python helper.
type PyannoteDiarizer struct {
	options Options
}

// JSON emitted by the helper script
type pyannoteOutput struct {
	Model    string `json:"model"`
	Segments []struct {
		Speaker string  `json:"speaker"`
		Start   float64 `json:"start"`
		End     float64 `json:"end"`
	} `json:"segments"`
}

func NewPyannoteDiarizer(opts Options) *PyannoteDiarizer {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	return &PyannoteDiarizer{options: opts}
}

func (d *PyannoteDiarizer) Diarize(
	ctx context.Context,
	audioPath string,
) (*segment.Diarization, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	scriptPath := filepath.Join(os.TempDir(), "hushnote_pyannote.py")
	if err := os.WriteFile(scriptPath, diarizeScript, 0755); err != nil {
		return nil, fmt.Errorf("failed to write helper script: %w", err)
	}
	defer os.Remove(scriptPath)

	python := d.options.Python
	if python == "" {
		python = os.Getenv("HUSHNOTE_PYTHON")
	}
	if python == "" {
		python = "python3"
	}

	args := []string{
		scriptPath,
		"--audio", audioPath,
		"--model", d.options.Model,
	}
	if d.options.NumSpeakers > 0 {
		args = append(args, "--num-speakers", strconv.Itoa(d.options.NumSpeakers))
	}
	if d.options.MinSpeakers > 0 {
		args = append(args, "--min-speakers", strconv.Itoa(d.options.MinSpeakers))
	}
	if d.options.MaxSpeakers > 0 {
		args = append(args, "--max-speakers", strconv.Itoa(d.options.MaxSpeakers))
	}

	token := d.options.HFToken
	if token == "" {
		token = os.Getenv("HF_TOKEN")
	}
	if token != "" {
		args = append(args, "--hf-token", token)
	}

	out, err := executor.Run(ctx, python, args...)
	if err != nil {
		return nil, fmt.Errorf("pyannote diarization failed: %w", err)
	}

	var parsed pyannoteOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse helper output: %w", err)
	}

	segments := make([]segment.Segment, 0, len(parsed.Segments))
	var duration float64
	for _, s := range parsed.Segments {
		segments = append(segments, segment.Segment{
			Start:     s.Start,
			End:       s.End,
			SpeakerID: s.Speaker,
		})
		if s.End > duration {
			duration = s.End
		}
	}

	stats := segment.ComputeStats(segments)
	absPath, _ := filepath.Abs(audioPath)

	return &segment.Diarization{
		Version:      segment.ArtifactVersion,
		AudioFile:    filepath.Base(audioPath),
		AudioPath:    absPath,
		Duration:     duration,
		Model:        d.options.Model,
		NumSpeakers:  len(stats),
		CreatedAt:    time.Now().UTC(),
		Segments:     segments,
		SpeakerStats: stats,
		Source:       "local_diarization",
	}, nil
}
