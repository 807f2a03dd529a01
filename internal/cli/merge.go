package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hushnote/hushnote/internal/merge"
	"github.com/hushnote/hushnote/internal/segment"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [speakers_file] [transcription_file]",
	Short: "Merge diarization output with a transcription",
	Long: `Combine a speakers artifact (from diarize) with a transcription
artifact (from transcribe) into a single document where every spoken
segment carries a speaker ID.

Each transcription segment is assigned the speaker whose turn overlaps it
the most. Segments no speaker turn covers are marked UNKNOWN.

Example:
  hushnote merge meeting_speakers.json meeting.json`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	speakersPath := args[0]
	transcriptionPath := args[1]
	outputPath, _ := cmd.Flags().GetString("output")

	diarization, err := segment.LoadDiarization(speakersPath)
	if err != nil {
		return fmt.Errorf("failed to load speakers file: %w", err)
	}
	transcription, err := segment.LoadTranscription(transcriptionPath)
	if err != nil {
		return fmt.Errorf("failed to load transcription: %w", err)
	}

	if outputPath == "" {
		base := strings.TrimSuffix(transcriptionPath, filepath.Ext(transcriptionPath))
		outputPath = base + "_diarized.json"
	}

	logger.Infow("Merging",
		"speakers", speakersPath,
		"transcription", transcriptionPath,
	)

	doc, err := merge.Merge(transcription, diarization)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	if err := doc.Save(outputPath); err != nil {
		return err
	}

	unknown := 0
	for _, seg := range doc.Segments {
		if seg.SpeakerID == merge.UnknownSpeaker {
			unknown++
		}
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Merge complete: %s\n", absOutput)
	fmt.Printf("  Segments: %d\n", len(doc.Segments))
	fmt.Printf("  Speakers: %d\n", doc.NumSpeakers)
	if unknown > 0 {
		fmt.Printf("  Unmatched segments: %d\n", unknown)
	}
	fmt.Printf("\nNext step: hushnote label %s\n", outputPath)

	return nil
}

func sortedSpeakerIDs(stats map[string]segment.SpeakerStats) []string {
	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
