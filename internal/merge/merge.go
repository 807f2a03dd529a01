package merge

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hushnote/hushnote/internal/segment"
)

// ErrEmptyInput reports a missing segment sequence. Merging needs both
// streams; transcription without diarization is a separate path.
var ErrEmptyInput = errors.New("empty input")

// UnknownSpeaker is assigned when no diarization segment overlaps a
// transcription segment. It surfaces literally in rendered output unless
// labeled.
const UnknownSpeaker = "UNKNOWN"

// MatchSpeakers assigns each transcription segment the speaker whose
// diarization segment overlaps it the most. Ties go to the diarization
// segment with the earlier start. Both inputs must be sorted by start.
//
// The returned sequence has the same order and count as the transcription
// input. A two-pointer sweep keeps this near-linear on long meetings:
// only diarization segments whose window can still intersect the current
// transcription segment are scanned.
func MatchSpeakers(transcription, diarization []segment.Segment) ([]segment.Segment, error) {
	if len(transcription) == 0 {
		return nil, fmt.Errorf("%w: no transcription segments", ErrEmptyInput)
	}
	if len(diarization) == 0 {
		return nil, fmt.Errorf("%w: no diarization segments", ErrEmptyInput)
	}
	if err := segment.Validate(transcription); err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}
	if err := segment.Validate(diarization); err != nil {
		return nil, fmt.Errorf("diarization: %w", err)
	}

	merged := make([]segment.Segment, len(transcription))

	// j points at the first diarization segment that has not ended before
	// the current transcription segment starts. It never moves backwards:
	// later transcription segments start no earlier.
	j := 0
	for i, t := range transcription {
		for j < len(diarization) && diarization[j].End <= t.Start {
			j++
		}

		best := UnknownSpeaker
		bestOverlap := 0.0
		for k := j; k < len(diarization) && diarization[k].Start < t.End; k++ {
			// scan order is ascending start, so a strict comparison keeps
			// the earlier-start segment on equal overlap
			if ov := t.Overlap(diarization[k]); ov > bestOverlap {
				bestOverlap = ov
				best = diarization[k].SpeakerID
			}
		}

		merged[i] = segment.Segment{
			Start:     t.Start,
			End:       t.End,
			Text:      t.Text,
			SpeakerID: best,
		}
	}

	return merged, nil
}

// Merge combines the two artifacts into a merged document, carrying over
// metadata from both and recomputing per-speaker statistics.
func Merge(tr *segment.Transcription, di *segment.Diarization) (*segment.Merged, error) {
	segments, err := MatchSpeakers(tr.Segments, di.Segments)
	if err != nil {
		return nil, err
	}

	duration := tr.Duration
	if duration == 0 {
		duration = di.Duration
	}

	return &segment.Merged{
		Version:            segment.ArtifactVersion,
		ID:                 uuid.NewString(),
		AudioFile:          di.AudioFile,
		AudioPath:          di.AudioPath,
		Duration:           duration,
		Language:           tr.Language,
		DiarizationModel:   di.Model,
		TranscriptionModel: tr.Model,
		NumSpeakers:        di.NumSpeakers,
		CreatedAt:          time.Now().UTC(),
		Segments:           segments,
		SpeakerStats:       segment.ComputeStats(segments),
		Labels:             make(map[string]segment.Label),
		Source:             "merged",
	}, nil
}
