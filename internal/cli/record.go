package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hushnote/hushnote/internal/audio"
)

var recordCmd = &cobra.Command{
	Use:   "record [output_file]",
	Short: "Record a meeting from an audio input device",
	Long: `Record audio from an input device into a WAV file ready for
transcription. Recording runs until Ctrl-C or --duration elapses.

Examples:
  hushnote record
  hushnote record standup.wav
  hushnote record --device default --duration 90m`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().
		String("device", "", "Capture device name (platform default when empty)")
	recordCmd.Flags().
		Duration("duration", 0, "Stop recording after this long (0 = until Ctrl-C)")
	recordCmd.Flags().
		Int("sample-rate", 0, "Sample rate in Hz")
	recordCmd.Flags().
		Int("channels", 0, "Number of audio channels")
}

func runRecord(cmd *cobra.Command, args []string) error {
	device, _ := cmd.Flags().GetString("device")
	maxDuration, _ := cmd.Flags().GetDuration("duration")
	sampleRate, _ := cmd.Flags().GetInt("sample-rate")
	channels, _ := cmd.Flags().GetInt("channels")

	if device == "" {
		device = cfg.Record.Device
	}
	if sampleRate == 0 {
		sampleRate = cfg.Record.SampleRate
	}
	if channels == 0 {
		channels = cfg.Record.Channels
	}

	outputPath := ""
	if len(args) == 1 {
		outputPath = args[0]
	}
	if outputPath == "" {
		outputPath, _ = cmd.Flags().GetString("output")
	}
	if outputPath == "" {
		outputPath = fmt.Sprintf(
			"meeting_%s.wav",
			time.Now().Format("20060102_150405"),
		)
	}

	opts := audio.RecordOptions{
		SampleRate:  sampleRate,
		Channels:    channels,
		MaxDuration: maxDuration,
	}

	logger.Infow("Recording",
		"output", outputPath,
		"device", device,
		"sample_rate", sampleRate,
	)
	fmt.Println("Recording... press Ctrl-C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := audio.Record(ctx, device, outputPath, opts); err != nil {
		return fmt.Errorf("recording failed: %w", err)
	}

	duration, err := audio.Duration(outputPath)
	if err != nil {
		logger.Warnw("Could not probe recording duration", "error", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Recording saved: %s\n", absOutput)
	if duration > 0 {
		fmt.Printf("  Duration: %s\n", duration.Truncate(time.Second))
	}
	fmt.Printf("\nNext step:\n  hushnote transcribe %s\n", outputPath)

	return nil
}
