package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hushnote/hushnote/internal/audio"
	"github.com/hushnote/hushnote/internal/segment"
	"github.com/hushnote/hushnote/internal/transcribe"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [audio_file]",
	Short: "Transcribe an audio file to text with timestamps",
	Long: `Transcribe an audio file using faster-whisper locally (default) or
the OpenAI Audio API.

The default output is a JSON artifact with timestamped segments, which
feeds the merge step. Use --format txt for plain text only.

Examples:
  hushnote transcribe meeting.wav
  hushnote transcribe meeting.wav --model large-v3 --device cuda
  hushnote transcribe meeting.wav --provider openai --chunk-duration 10`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)

	transcribeCmd.Flags().
		String("provider", "", "Transcription provider (whisper, openai)")
	transcribeCmd.Flags().
		StringP("model", "m", "", "Model size (whisper) or model name (openai)")
	transcribeCmd.Flags().
		StringP("language", "l", "", "Language code (default: auto-detect)")
	transcribeCmd.Flags().
		String("device", "", "Compute device for whisper (cpu, cuda, auto)")
	transcribeCmd.Flags().
		String("compute-type", "", "Compute type for whisper (int8, float16, float32)")
	transcribeCmd.Flags().
		StringP("api-key", "k", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
	transcribeCmd.Flags().
		Int("chunk-duration", 10, "Chunk duration in minutes for API transcription")
	transcribeCmd.Flags().
		Int("concurrency", 3, "Number of parallel transcription workers (openai)")
	transcribeCmd.Flags().
		StringP("format", "f", "json", "Output format (json, txt)")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
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

	providerStr, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	language, _ := cmd.Flags().GetString("language")
	device, _ := cmd.Flags().GetString("device")
	computeType, _ := cmd.Flags().GetString("compute-type")
	apiKey, _ := cmd.Flags().GetString("api-key")
	chunkMinutes, _ := cmd.Flags().GetInt("chunk-duration")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if providerStr == "" {
		providerStr = cfg.Transcribe.Provider
	}
	if model == "" {
		model = cfg.Transcribe.Model
	}
	if language == "" {
		language = cfg.Transcribe.Language
	}
	if device == "" {
		device = cfg.Transcribe.Device
	}
	if computeType == "" {
		computeType = cfg.Transcribe.ComputeType
	}

	provider := transcribe.Provider(providerStr)
	if provider == transcribe.ProviderOpenAI && apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if provider == transcribe.ProviderOpenAI && apiKey == "" {
		return fmt.Errorf(
			"OpenAI API key is required: use --api-key flag or set OPENAI_API_KEY environment variable",
		)
	}

	if formatStr != "json" && formatStr != "txt" {
		return fmt.Errorf("unsupported format %q: use json or txt", formatStr)
	}
	if outputPath == "" {
		base := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
		outputPath = base + "." + formatStr
	}

	opts := transcribe.Options{
		Language:    language,
		Model:       model,
		Device:      device,
		ComputeType: computeType,
		Python:      cfg.Transcribe.Python,
	}

	transcriber, err := transcribe.Factory(ctx, provider, apiKey, opts)
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	logger.Infow("Transcribing",
		"input", audioPath,
		"provider", providerStr,
		"model", model,
	)

	result, err := transcribeFile(cmd, transcriber, audioPath, chunkMinutes, concurrency)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	switch formatStr {
	case "txt":
		if err := os.WriteFile(outputPath, []byte(result.Text+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write transcript: %w", err)
		}
	default:
		if err := result.Save(outputPath); err != nil {
			return err
		}
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Transcription complete: %s\n", absOutput)
	fmt.Printf("  Segments: %d\n", len(result.Segments))
	if result.Language != "" {
		fmt.Printf("  Language: %s\n", result.Language)
	}
	if result.Duration > 0 {
		fmt.Printf("  Duration: %.1fs\n", result.Duration)
	}

	return nil
}

// transcribeFile picks the whole-file or chunked path depending on the
// transcriber. The local whisper engine streams the file itself; the API
// provider uploads chunks in parallel.
func transcribeFile(
	cmd *cobra.Command,
	transcriber transcribe.Transcriber,
	audioPath string,
	chunkMinutes, concurrency int,
) (*segment.Transcription, error) {
	ctx := cmd.Context()

	openaiTranscriber, ok := transcriber.(*transcribe.OpenAITranscriber)
	if !ok {
		return transcriber.Transcribe(ctx, audioPath)
	}

	tempDir, err := os.MkdirTemp("", "hushnote-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	chunkDur := time.Duration(chunkMinutes) * time.Minute
	logger.Infow("Splitting audio into chunks", "chunk_duration", chunkDur.String())

	chunks, err := audio.ChunkAudio(ctx, audioPath, chunkDur, filepath.Join(tempDir, "chunks"))
	if err != nil {
		return nil, fmt.Errorf("failed to split audio: %w", err)
	}
	defer audio.CleanupChunks(chunks)

	logger.Infow("Transcribing chunks", "count", len(chunks), "concurrency", concurrency)
	return openaiTranscriber.TranscribeWithChunks(ctx, chunks, concurrency)
}
