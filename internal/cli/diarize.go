package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hushnote/hushnote/internal/audio"
	"github.com/hushnote/hushnote/internal/diarize"
)

var diarizeCmd = &cobra.Command{
	Use:   "diarize [audio_file]",
	Short: "Detect speaker turns in an audio file",
	Long: `Run speaker diarization on an audio file using pyannote.audio.

Produces a speakers artifact listing who spoke when, with per-speaker
statistics. The speakers are anonymous (SPEAKER_00, SPEAKER_01, ...) until
you name them with the label command.

Requires a Hugging Face token with access to the pyannote models. Pass it
with --hf-token or set the HF_TOKEN environment variable.

Examples:
  hushnote diarize meeting.wav
  hushnote diarize meeting.wav --speakers 3
  hushnote diarize meeting.wav --min-speakers 2 --max-speakers 5`,
	Args: cobra.ExactArgs(1),
	RunE: runDiarize,
}

func init() {
	rootCmd.AddCommand(diarizeCmd)

	diarizeCmd.Flags().
		IntP("speakers", "s", 0, "Exact number of speakers (when known)")
	diarizeCmd.Flags().
		Int("min-speakers", 0, "Minimum number of speakers")
	diarizeCmd.Flags().
		Int("max-speakers", 0, "Maximum number of speakers")
	diarizeCmd.Flags().
		String("hf-token", "", "Hugging Face token (or set HF_TOKEN env var)")
	diarizeCmd.Flags().
		StringP("model", "m", "", "Diarization model")
}

func runDiarize(cmd *cobra.Command, args []string) error {
	audioPath := args[0]
	ctx := cmd.Context()

	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return fmt.Errorf("audio file not found: %s", audioPath)
	}
	if !audio.IsMediaFile(audioPath) {
		return fmt.Errorf(
			"unsupported file type: %s (expected an audio or video file)",
			filepath.Ext(audioPath),
		)
	}

	numSpeakers, _ := cmd.Flags().GetInt("speakers")
	minSpeakers, _ := cmd.Flags().GetInt("min-speakers")
	maxSpeakers, _ := cmd.Flags().GetInt("max-speakers")
	hfToken, _ := cmd.Flags().GetString("hf-token")
	model, _ := cmd.Flags().GetString("model")
	outputPath, _ := cmd.Flags().GetString("output")

	if model == "" {
		model = cfg.Diarize.Model
	}
	if minSpeakers == 0 {
		minSpeakers = cfg.Diarize.MinSpeakers
	}
	if maxSpeakers == 0 {
		maxSpeakers = cfg.Diarize.MaxSpeakers
	}
	if minSpeakers > 0 && maxSpeakers > 0 && minSpeakers > maxSpeakers {
		return fmt.Errorf(
			"--min-speakers %d exceeds --max-speakers %d", minSpeakers, maxSpeakers,
		)
	}
	if outputPath == "" {
		base := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
		outputPath = base + "_speakers.json"
	}

	// pyannote wants plain 16 kHz mono WAV; convert other containers first
	inputPath := audioPath
	if strings.ToLower(filepath.Ext(audioPath)) != ".wav" {
		tempDir, err := os.MkdirTemp("", "hushnote-*")
		if err != nil {
			return fmt.Errorf("failed to create temp directory: %w", err)
		}
		defer os.RemoveAll(tempDir)

		inputPath = filepath.Join(tempDir, "prepared.wav")
		logger.Infow("Preparing audio", "input", audioPath)
		if err := audio.Prepare(ctx, audioPath, inputPath, audio.DefaultPrepareOptions()); err != nil {
			return fmt.Errorf("failed to prepare audio: %w", err)
		}
	}

	diarizer := diarize.NewPyannoteDiarizer(diarize.Options{
		Model:       model,
		NumSpeakers: numSpeakers,
		MinSpeakers: minSpeakers,
		MaxSpeakers: maxSpeakers,
		HFToken:     hfToken,
		Python:      cfg.Diarize.Python,
	})

	logger.Infow("Diarizing", "input", audioPath, "model", model)
	fmt.Println("Running speaker diarization (this can take a while)...")

	result, err := diarizer.Diarize(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("diarization failed: %w", err)
	}

	// the artifact names the original recording, not the temp conversion
	if inputPath != audioPath {
		result.AudioFile = filepath.Base(audioPath)
		result.AudioPath, _ = filepath.Abs(audioPath)
	}

	if err := result.Save(outputPath); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Diarization complete: %s\n", absOutput)
	fmt.Printf("  Speakers: %d\n", result.NumSpeakers)
	fmt.Printf("  Segments: %d\n", len(result.Segments))
	for _, id := range sortedSpeakerIDs(result.SpeakerStats) {
		stats := result.SpeakerStats[id]
		fmt.Printf("  %s: %.1fs over %d segments\n", id, stats.TotalTime, stats.SegmentCount)
	}
	fmt.Printf("\nNext step: hushnote merge %s <transcription.json>\n", outputPath)

	return nil
}
