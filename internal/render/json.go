package render

import (
	"encoding/json"
	"fmt"

	"github.com/hushnote/hushnote/internal/label"
	"github.com/hushnote/hushnote/internal/segment"
)

// structured record format: segments with resolved names plus the labels map
type JSONRenderer struct{}

type jsonSegment struct {
	Speaker   string  `json:"speaker"`
	SpeakerID string  `json:"speaker_id"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Text      string  `json:"text"`
}

type jsonDocument struct {
	Segments []jsonSegment            `json:"segments"`
	Labels   map[string]segment.Label `json:"labels"`
}

func (r *JSONRenderer) Render(segments []segment.Segment, labels *label.Store) (string, error) {
	doc := jsonDocument{
		Segments: make([]jsonSegment, 0, len(segments)),
		Labels:   labels.Labels(),
	}

	for _, seg := range segments {
		doc.Segments = append(doc.Segments, jsonSegment{
			Speaker:   labels.Resolve(seg.SpeakerID),
			SpeakerID: seg.SpeakerID,
			Start:     seg.Start,
			End:       seg.End,
			Text:      seg.Text,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode transcript: %w", err)
	}
	return string(data) + "\n", nil
}
