package merge

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/hushnote/hushnote/internal/segment"
)

func TestMatchSpeakers(t *testing.T) {
	tests := []struct {
		name          string
		transcription []segment.Segment
		diarization   []segment.Segment
		wantSpeakers  []string
	}{
		{
			name: "splits at speaker boundary by max overlap",
			transcription: []segment.Segment{
				{Start: 0.0, End: 5.0, Text: "Hello"},
				{Start: 5.0, End: 9.0, Text: "World"},
			},
			diarization: []segment.Segment{
				{Start: 0.0, End: 4.0, SpeakerID: "S0"},
				{Start: 4.0, End: 9.0, SpeakerID: "S1"},
			},
			wantSpeakers: []string{"S0", "S1"},
		},
		{
			name: "no overlap yields unknown",
			transcription: []segment.Segment{
				{Start: 10.0, End: 12.0, Text: "Gap"},
			},
			diarization: []segment.Segment{
				{Start: 0.0, End: 5.0, SpeakerID: "S0"},
			},
			wantSpeakers: []string{UnknownSpeaker},
		},
		{
			name: "equal overlap prefers earlier start",
			transcription: []segment.Segment{
				{Start: 2.0, End: 6.0, Text: "tied"},
			},
			diarization: []segment.Segment{
				{Start: 0.0, End: 4.0, SpeakerID: "S0"},
				{Start: 4.0, End: 8.0, SpeakerID: "S1"},
			},
			wantSpeakers: []string{"S0"},
		},
		{
			name: "transcription segment spanning three turns",
			transcription: []segment.Segment{
				{Start: 0.0, End: 10.0, Text: "long"},
			},
			diarization: []segment.Segment{
				{Start: 0.0, End: 2.0, SpeakerID: "S0"},
				{Start: 2.0, End: 9.0, SpeakerID: "S1"},
				{Start: 9.0, End: 10.0, SpeakerID: "S2"},
			},
			wantSpeakers: []string{"S1"},
		},
		{
			name: "adjacent turn ending at segment start does not match",
			transcription: []segment.Segment{
				{Start: 5.0, End: 6.0, Text: "after"},
			},
			diarization: []segment.Segment{
				{Start: 0.0, End: 5.0, SpeakerID: "S0"},
			},
			wantSpeakers: []string{UnknownSpeaker},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchSpeakers(tt.transcription, tt.diarization)
			if err != nil {
				t.Fatalf("MatchSpeakers() error = %v", err)
			}
			if len(got) != len(tt.transcription) {
				t.Fatalf("got %d segments, want %d", len(got), len(tt.transcription))
			}
			for i, seg := range got {
				if seg.SpeakerID != tt.wantSpeakers[i] {
					t.Errorf("segment %d: speaker = %q, want %q", i, seg.SpeakerID, tt.wantSpeakers[i])
				}
				if seg.Start != tt.transcription[i].Start || seg.End != tt.transcription[i].End {
					t.Errorf("segment %d: timing changed: got (%v,%v)", i, seg.Start, seg.End)
				}
				if seg.Text != tt.transcription[i].Text {
					t.Errorf("segment %d: text changed: got %q", i, seg.Text)
				}
			}
		})
	}
}

func TestMatchSpeakersEmptyInputs(t *testing.T) {
	some := []segment.Segment{{Start: 0, End: 1, SpeakerID: "S0", Text: "x"}}

	if _, err := MatchSpeakers(nil, some); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty transcription: error = %v, want ErrEmptyInput", err)
	}
	if _, err := MatchSpeakers(some, nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty diarization: error = %v, want ErrEmptyInput", err)
	}
}

func TestMatchSpeakersMalformedInput(t *testing.T) {
	diarization := []segment.Segment{{Start: 0, End: 5, SpeakerID: "S0"}}

	tests := []struct {
		name          string
		transcription []segment.Segment
		wantInIndex   string
	}{
		{
			name:          "start after end",
			transcription: []segment.Segment{{Start: 3, End: 1, Text: "bad"}},
			wantInIndex:   "segment 0",
		},
		{
			name: "out of order",
			transcription: []segment.Segment{
				{Start: 2, End: 3, Text: "a"},
				{Start: 0, End: 1, Text: "b"},
			},
			wantInIndex: "segment 1",
		},
		{
			name:          "negative timestamp",
			transcription: []segment.Segment{{Start: -1, End: 1, Text: "neg"}},
			wantInIndex:   "segment 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MatchSpeakers(tt.transcription, diarization)
			if !errors.Is(err, segment.ErrMalformedSegment) {
				t.Fatalf("error = %v, want ErrMalformedSegment", err)
			}
			if !strings.Contains(err.Error(), tt.wantInIndex) {
				t.Errorf("error %q does not name the offending segment (%s)", err, tt.wantInIndex)
			}
		})
	}
}

// brute force over every diarization segment, as a reference for the sweep
func matchBrute(t, diarization []segment.Segment) string {
	best := UnknownSpeaker
	bestOverlap := 0.0
	type pair struct {
		start   float64
		speaker string
		overlap float64
	}
	var candidates []pair
	for _, d := range diarization {
		dd := d
		start := t[0].Start
		if dd.Start > start {
			start = dd.Start
		}
		end := t[0].End
		if dd.End < end {
			end = dd.End
		}
		ov := end - start
		if ov > 0 {
			candidates = append(candidates, pair{dd.Start, dd.SpeakerID, ov})
		}
	}
	for _, c := range candidates {
		if c.overlap > bestOverlap {
			bestOverlap = c.overlap
			best = c.speaker
		}
	}
	return best
}

func TestMatchSpeakersAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 100; trial++ {
		var transcription []segment.Segment
		cursor := 0.0
		for i := 0; i < 20; i++ {
			cursor += rng.Float64() * 2
			length := 0.5 + rng.Float64()*4
			transcription = append(transcription, segment.Segment{
				Start: cursor, End: cursor + length, Text: "t",
			})
			cursor += length
		}

		var diarization []segment.Segment
		cursor = 0.0
		for i := 0; i < 15; i++ {
			cursor += rng.Float64() * 3
			length := 0.5 + rng.Float64()*6
			diarization = append(diarization, segment.Segment{
				Start: cursor, End: cursor + length, SpeakerID: "S" + string(rune('0'+i%5)),
			})
			cursor += length
		}

		got, err := MatchSpeakers(transcription, diarization)
		if err != nil {
			t.Fatalf("trial %d: MatchSpeakers() error = %v", trial, err)
		}
		for i := range got {
			want := matchBrute(transcription[i:i+1], diarization)
			if got[i].SpeakerID != want {
				t.Fatalf("trial %d segment %d: speaker = %q, brute force says %q",
					trial, i, got[i].SpeakerID, want)
			}
		}
	}
}

func TestMerge(t *testing.T) {
	tr := &segment.Transcription{
		Language: "en",
		Duration: 9.0,
		Model:    "faster-whisper/base",
		Segments: []segment.Segment{
			{Start: 0.0, End: 5.0, Text: "Hello"},
			{Start: 5.0, End: 9.0, Text: "World"},
		},
	}
	di := &segment.Diarization{
		Version:     segment.ArtifactVersion,
		AudioFile:   "meeting.wav",
		Duration:    9.0,
		Model:       "pyannote/speaker-diarization-3.1",
		NumSpeakers: 2,
		Segments: []segment.Segment{
			{Start: 0.0, End: 4.0, SpeakerID: "S0"},
			{Start: 4.0, End: 9.0, SpeakerID: "S1"},
		},
	}

	doc, err := Merge(tr, di)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if doc.ID == "" {
		t.Error("merged document has no ID")
	}
	if doc.AudioFile != "meeting.wav" {
		t.Errorf("AudioFile = %q, want meeting.wav", doc.AudioFile)
	}
	if doc.Language != "en" {
		t.Errorf("Language = %q, want en", doc.Language)
	}
	if doc.Source != "merged" {
		t.Errorf("Source = %q, want merged", doc.Source)
	}
	if doc.NumSpeakers != 2 {
		t.Errorf("NumSpeakers = %d, want 2", doc.NumSpeakers)
	}
	if doc.Labels == nil {
		t.Error("Labels map is nil")
	}

	stats, ok := doc.SpeakerStats["S0"]
	if !ok {
		t.Fatal("no stats for S0")
	}
	if stats.SegmentCount != 1 || stats.TotalTime != 5.0 {
		t.Errorf("S0 stats = %+v, want 1 segment over 5s", stats)
	}
}
