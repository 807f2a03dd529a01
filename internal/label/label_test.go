package label

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hushnote/hushnote/internal/segment"
)

func sampleSegments() []segment.Segment {
	return []segment.Segment{
		{Start: 0, End: 2, Text: "short opener", SpeakerID: "SPEAKER_00"},
		{Start: 2, End: 8, Text: "a much longer remark", SpeakerID: "SPEAKER_01"},
		{Start: 8, End: 9, Text: "ok", SpeakerID: "SPEAKER_00"},
		{Start: 9, End: 14, Text: "the longest monologue here", SpeakerID: "SPEAKER_00"},
		{Start: 14, End: 15, Text: "   ", SpeakerID: "SPEAKER_01"},
		{Start: 15, End: 18, Text: "closing", SpeakerID: "SPEAKER_00"},
	}
}

func TestSpeakers(t *testing.T) {
	store := New(sampleSegments())

	got := store.Speakers()
	want := []string{"SPEAKER_00", "SPEAKER_01"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Speakers() = %v, want %v", got, want)
	}
}

func TestPropose(t *testing.T) {
	store := New(sampleSegments())

	quotes := store.Propose("SPEAKER_00")
	if len(quotes) != 3 {
		t.Fatalf("got %d quotes, want 3", len(quotes))
	}

	// the three longest SPEAKER_00 segments, back in chronological order
	wantTexts := []string{"short opener", "the longest monologue here", "closing"}
	for i, q := range quotes {
		if q.Text != wantTexts[i] {
			t.Errorf("quote %d = %q, want %q", i, q.Text, wantTexts[i])
		}
	}
	for i := 1; i < len(quotes); i++ {
		if quotes[i].Start < quotes[i-1].Start {
			t.Error("quotes are not in chronological order")
		}
	}
}

func TestProposeSkipsEmptyText(t *testing.T) {
	store := New(sampleSegments())

	for _, q := range store.Propose("SPEAKER_01") {
		if q.Text == "   " {
			t.Error("Propose returned a whitespace-only quote")
		}
	}
}

func TestProposeUnknownSpeaker(t *testing.T) {
	store := New(sampleSegments())

	if quotes := store.Propose("SPEAKER_99"); len(quotes) != 0 {
		t.Errorf("got %d quotes for an absent speaker, want 0", len(quotes))
	}
}

func TestProposeN(t *testing.T) {
	store := New(sampleSegments())

	if quotes := store.ProposeN("SPEAKER_00", 2); len(quotes) != 2 {
		t.Errorf("ProposeN(2) returned %d quotes", len(quotes))
	}
	if quotes := store.ProposeN("SPEAKER_00", 100); len(quotes) != 4 {
		t.Errorf("ProposeN(100) returned %d quotes, want all 4", len(quotes))
	}
}

func TestAssignAndResolve(t *testing.T) {
	store := New(sampleSegments())

	if err := store.Assign("SPEAKER_00", "Alice", SourceManual, nil); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	if got := store.Resolve("SPEAKER_00"); got != "Alice" {
		t.Errorf("Resolve(SPEAKER_00) = %q, want Alice", got)
	}
	// unlabeled ids resolve to themselves
	if got := store.Resolve("SPEAKER_01"); got != "SPEAKER_01" {
		t.Errorf("Resolve(SPEAKER_01) = %q, want SPEAKER_01", got)
	}
	if got := store.Resolve("UNKNOWN"); got != "UNKNOWN" {
		t.Errorf("Resolve(UNKNOWN) = %q, want UNKNOWN", got)
	}
}

func TestAssignLastWriteWins(t *testing.T) {
	store := New(sampleSegments())

	if err := store.Assign("SPEAKER_00", "Alice", SourceManual, nil); err != nil {
		t.Fatal(err)
	}
	if err := store.Assign("SPEAKER_00", "Alicia", SourceManual, nil); err != nil {
		t.Fatalf("re-assign error = %v", err)
	}
	if got := store.Resolve("SPEAKER_00"); got != "Alicia" {
		t.Errorf("Resolve() = %q, want the most recent name Alicia", got)
	}
}

func TestAssignStrict(t *testing.T) {
	store := New(sampleSegments())
	store.Strict = true

	if err := store.Assign("SPEAKER_00", "Alice", SourceManual, nil); err != nil {
		t.Fatal(err)
	}
	err := store.Assign("SPEAKER_00", "Bob", SourceManual, nil)
	if !errors.Is(err, ErrDuplicateSpeaker) {
		t.Errorf("strict re-assign error = %v, want ErrDuplicateSpeaker", err)
	}
	if got := store.Resolve("SPEAKER_00"); got != "Alice" {
		t.Errorf("Resolve() = %q, want the original name Alice", got)
	}
}

func TestAssignValidation(t *testing.T) {
	store := New(sampleSegments())

	if err := store.Assign("", "Alice", SourceManual, nil); err == nil {
		t.Error("empty speaker ID accepted")
	}
	if err := store.Assign("SPEAKER_00", "", SourceManual, nil); err == nil {
		t.Error("empty name accepted")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	doc := &segment.Merged{
		Version:  segment.ArtifactVersion,
		Segments: sampleSegments(),
		Labels:   make(map[string]segment.Label),
	}

	store := NewFromMerged(doc)
	if err := store.Assign("SPEAKER_00", "Alice", SourceManual, nil); err != nil {
		t.Fatal(err)
	}
	if err := store.Assign("SPEAKER_01", "SPEAKER_01", SourceSkipped, nil); err != nil {
		t.Fatal(err)
	}
	store.ApplyTo(doc)

	path := filepath.Join(t.TempDir(), "labeled.json")
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := segment.LoadMerged(path)
	if err != nil {
		t.Fatalf("LoadMerged() error = %v", err)
	}

	reloaded := NewFromMerged(loaded)
	if got := reloaded.Resolve("SPEAKER_00"); got != "Alice" {
		t.Errorf("reloaded Resolve(SPEAKER_00) = %q, want Alice", got)
	}
	if entry := reloaded.Labels()["SPEAKER_01"]; entry.Source != SourceSkipped {
		t.Errorf("reloaded SPEAKER_01 source = %q, want %q", entry.Source, SourceSkipped)
	}
}
