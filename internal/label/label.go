package label

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hushnote/hushnote/internal/segment"
)

// ErrDuplicateSpeaker reports a second assignment for a speaker when the
// store runs in strict one-shot mode.
var ErrDuplicateSpeaker = errors.New("speaker already labeled")

// label entry provenance
const (
	SourceManual  = "manual"
	SourceAPI     = "api"
	SourceSkipped = "skipped"
)

// DefaultSampleSize is the number of quotes Propose returns per speaker.
const DefaultSampleSize = 3

// Store maps anonymous speaker IDs to display names over an immutable
// snapshot of merged segments. Assignment is last-write-wins unless Strict
// is set, in which case re-assigning a speaker fails with
// ErrDuplicateSpeaker.
type Store struct {
	// Strict enables one-shot assignment.
	Strict bool
	// SampleSize caps the quotes returned by Propose.
	SampleSize int

	segments []segment.Segment
	entries  map[string]segment.Label
}

// New creates a store over the given merged segments with no labels.
func New(segments []segment.Segment) *Store {
	return &Store{
		SampleSize: DefaultSampleSize,
		segments:   segments,
		entries:    make(map[string]segment.Label),
	}
}

// NewFromMerged creates a store over a merged document, preloading any
// labels it already carries.
func NewFromMerged(doc *segment.Merged) *Store {
	s := New(doc.Segments)
	for id, entry := range doc.Labels {
		s.entries[id] = entry
	}
	return s
}

// Speakers returns the unique speaker IDs found in the segments, sorted.
func (s *Store) Speakers() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, seg := range s.segments {
		if seg.SpeakerID == "" || seen[seg.SpeakerID] {
			continue
		}
		seen[seg.SpeakerID] = true
		ids = append(ids, seg.SpeakerID)
	}
	sort.Strings(ids)
	return ids
}

// Propose returns up to SampleSize representative quotes for a speaker:
// the longest-duration non-empty segments, in chronological order.
func (s *Store) Propose(speakerID string) []segment.Segment {
	return s.ProposeN(speakerID, s.SampleSize)
}

// ProposeN is Propose with an explicit quote count.
func (s *Store) ProposeN(speakerID string, n int) []segment.Segment {
	var candidates []segment.Segment
	for _, seg := range s.segments {
		if seg.SpeakerID == speakerID && strings.TrimSpace(seg.Text) != "" {
			candidates = append(candidates, seg)
		}
	}

	if n <= 0 {
		n = DefaultSampleSize
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Duration() > candidates[j].Duration()
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Start < candidates[j].Start
	})

	return candidates
}

// Assign records a label entry for a speaker.
func (s *Store) Assign(speakerID, name, source string, metadata map[string]string) error {
	if speakerID == "" {
		return fmt.Errorf("speaker ID is required")
	}
	if name == "" {
		return fmt.Errorf("display name is required for %s", speakerID)
	}
	if s.Strict {
		if _, exists := s.entries[speakerID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateSpeaker, speakerID)
		}
	}

	s.entries[speakerID] = segment.Label{
		Name:      name,
		Source:    source,
		LabeledAt: time.Now().UTC(),
		Metadata:  metadata,
	}
	return nil
}

// Resolve returns the display name for a speaker ID, or the ID itself when
// no label exists. Unlabeled speakers surface literally.
func (s *Store) Resolve(speakerID string) string {
	if entry, ok := s.entries[speakerID]; ok && entry.Name != "" {
		return entry.Name
	}
	return speakerID
}

// Labels returns a copy of the current label entries.
func (s *Store) Labels() map[string]segment.Label {
	out := make(map[string]segment.Label, len(s.entries))
	for id, entry := range s.entries {
		out[id] = entry
	}
	return out
}

// ApplyTo writes the current labels into a merged document so labeling
// persists as an artifact separate from rendering.
func (s *Store) ApplyTo(doc *segment.Merged) {
	doc.Labels = s.Labels()
}
