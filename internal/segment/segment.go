package segment

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedSegment reports a segment that violates the timing invariant.
var ErrMalformedSegment = errors.New("malformed segment")

// represents a time-bounded utterance. Text is set on transcription
// segments, SpeakerID on diarization segments, both on merged segments.
type Segment struct {
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Text      string  `json:"text,omitempty"`
	SpeakerID string  `json:"speaker_id,omitempty"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Overlap returns the overlap duration with another segment in seconds,
// zero when the segments are disjoint.
func (s Segment) Overlap(other Segment) float64 {
	start := s.Start
	if other.Start > start {
		start = other.Start
	}
	end := s.End
	if other.End < end {
		end = other.End
	}
	if end <= start {
		return 0
	}
	return end - start
}

// Validate checks the segment sequence invariant: every segment has
// non-negative start < end, and starts are non-decreasing. The returned
// error names the offending segment so upstream producer output can be
// debugged.
func Validate(segments []Segment) error {
	for i, seg := range segments {
		if seg.Start < 0 || seg.End < 0 {
			return fmt.Errorf(
				"%w: segment %d has negative timestamp (start=%.3f end=%.3f)",
				ErrMalformedSegment, i, seg.Start, seg.End,
			)
		}
		if seg.Start >= seg.End {
			return fmt.Errorf(
				"%w: segment %d has start >= end (start=%.3f end=%.3f)",
				ErrMalformedSegment, i, seg.Start, seg.End,
			)
		}
		if i > 0 && seg.Start < segments[i-1].Start {
			return fmt.Errorf(
				"%w: segment %d starts before segment %d (%.3f < %.3f)",
				ErrMalformedSegment, i, i-1, seg.Start, segments[i-1].Start,
			)
		}
	}
	return nil
}

// WordCount counts whitespace-separated words in the segment text.
func (s Segment) WordCount() int {
	return len(strings.Fields(s.Text))
}
