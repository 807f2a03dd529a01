package segment

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// ArtifactVersion is stamped into every persisted document.
const ArtifactVersion = "1.0"

// per-speaker aggregate statistics
type SpeakerStats struct {
	TotalTime    float64 `json:"total_time"`
	SegmentCount int     `json:"segment_count"`
	WordCount    int     `json:"word_count,omitempty"`
}

// Label is a persisted speaker label entry, keyed by speaker ID in the
// labels map of a merged document.
type Label struct {
	Name      string            `json:"name"`
	Source    string            `json:"source"`
	LabeledAt time.Time         `json:"labeled_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Transcription is the raw transcription artifact: ordered segments with
// text, no speakers.
type Transcription struct {
	Language            string    `json:"language,omitempty"`
	LanguageProbability float64   `json:"language_probability,omitempty"`
	Duration            float64   `json:"duration,omitempty"`
	Model               string    `json:"transcription_model,omitempty"`
	Segments            []Segment `json:"segments"`
	Text                string    `json:"text,omitempty"`
}

// Diarization is the raw diarization artifact: ordered segments with
// speaker IDs, no text.
type Diarization struct {
	Version      string                  `json:"version"`
	AudioFile    string                  `json:"audio_file,omitempty"`
	AudioPath    string                  `json:"audio_path,omitempty"`
	Duration     float64                 `json:"duration"`
	Model        string                  `json:"diarization_model,omitempty"`
	NumSpeakers  int                     `json:"num_speakers"`
	CreatedAt    time.Time               `json:"created_at"`
	Segments     []Segment               `json:"segments"`
	SpeakerStats map[string]SpeakerStats `json:"speaker_stats,omitempty"`
	Source       string                  `json:"source,omitempty"`
}

// Merged combines diarization speakers with transcription text, plus the
// labels map written by the labeling step. Recomputed whenever its inputs
// change; the labels map is the only part rewritten afterwards.
type Merged struct {
	Version            string                  `json:"version"`
	ID                 string                  `json:"id,omitempty"`
	AudioFile          string                  `json:"audio_file,omitempty"`
	AudioPath          string                  `json:"audio_path,omitempty"`
	Duration           float64                 `json:"duration,omitempty"`
	Language           string                  `json:"language,omitempty"`
	DiarizationModel   string                  `json:"diarization_model,omitempty"`
	TranscriptionModel string                  `json:"transcription_model,omitempty"`
	NumSpeakers        int                     `json:"num_speakers"`
	CreatedAt          time.Time               `json:"created_at"`
	Segments           []Segment               `json:"segments"`
	SpeakerStats       map[string]SpeakerStats `json:"speaker_stats,omitempty"`
	Labels             map[string]Label        `json:"labels"`
	Source             string                  `json:"source,omitempty"`
}

// ComputeStats aggregates speaking time, segment count and word count per
// speaker ID.
func ComputeStats(segments []Segment) map[string]SpeakerStats {
	stats := make(map[string]SpeakerStats)
	for _, seg := range segments {
		s := stats[seg.SpeakerID]
		s.TotalTime += seg.Duration()
		s.SegmentCount++
		s.WordCount += seg.WordCount()
		stats[seg.SpeakerID] = s
	}
	return stats
}

func LoadTranscription(path string) (*Transcription, error) {
	var doc Transcription
	if err := loadJSON(path, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func LoadDiarization(path string) (*Diarization, error) {
	var doc Diarization
	if err := loadJSON(path, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func LoadMerged(path string) (*Merged, error) {
	var doc Merged
	if err := loadJSON(path, &doc); err != nil {
		return nil, err
	}
	if doc.Labels == nil {
		doc.Labels = make(map[string]Label)
	}
	return &doc, nil
}

func (t *Transcription) Save(path string) error { return saveJSON(path, t) }
func (d *Diarization) Save(path string) error   { return saveJSON(path, d) }
func (m *Merged) Save(path string) error        { return saveJSON(path, m) }

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
