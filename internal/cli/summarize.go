package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hushnote/hushnote/internal/summarize"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [transcript_file]",
	Short: "Summarize a meeting transcript",
	Long: `Generate a meeting summary and action items from a transcript.

The input can be a plain text transcript or a JSON document with a "text"
field (the transcription artifact works directly). By default a local
Ollama model is used; cloud providers need an API key.

Examples:
  hushnote summarize meeting.txt
  hushnote summarize meeting.json --provider openai
  hushnote summarize meeting.txt --provider anthropic --no-action-items`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().
		String("provider", "", "Summarization provider (ollama, openai, anthropic, gemini)")
	summarizeCmd.Flags().
		StringP("model", "m", "", "Model name")
	summarizeCmd.Flags().
		String("ollama-url", "", "Ollama server URL")
	summarizeCmd.Flags().
		StringP("api-key", "k", "", "API key for cloud providers (falls back to env vars)")
	summarizeCmd.Flags().
		Bool("no-action-items", false, "Skip the action items pass")
	summarizeCmd.Flags().
		StringP("format", "f", "md", "Output format (md, json)")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	ctx := cmd.Context()

	providerStr, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	ollamaURL, _ := cmd.Flags().GetString("ollama-url")
	apiKey, _ := cmd.Flags().GetString("api-key")
	noActionItems, _ := cmd.Flags().GetBool("no-action-items")
	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if providerStr == "" {
		providerStr = cfg.Summarize.Provider
	}
	if model == "" {
		model = cfg.Summarize.Model
	}
	if ollamaURL == "" {
		ollamaURL = cfg.Summarize.OllamaURL
	}
	if formatStr != "md" && formatStr != "json" {
		return fmt.Errorf("unsupported format %q: use md or json", formatStr)
	}

	provider := summarize.Provider(providerStr)
	if apiKey == "" {
		apiKey = apiKeyFromEnv(provider)
	}

	transcript, err := readTranscript(inputPath)
	if err != nil {
		return err
	}

	opts := summarize.Options{
		Model:       model,
		Endpoint:    ollamaURL,
		ActionItems: !noActionItems,
	}

	summarizer, err := summarize.Factory(ctx, provider, apiKey, opts)
	if err != nil {
		return fmt.Errorf("failed to create summarizer: %w", err)
	}

	logger.Infow("Summarizing", "input", inputPath, "provider", providerStr, "model", model)
	fmt.Println("Generating summary...")

	result, err := summarizer.Summarize(ctx, transcript)
	if err != nil {
		return fmt.Errorf("summarization failed: %w", err)
	}

	if outputPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outputPath = base + "_summary." + formatStr
	}

	var out []byte
	switch formatStr {
	case "json":
		out, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}
		out = append(out, '\n')
	default:
		out = []byte(result.Markdown())
	}

	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Summary written: %s\n", absOutput)

	return nil
}

// readTranscript accepts either plain text or a JSON document carrying the
// transcript in a "text" field.
func readTranscript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var doc struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return "", fmt.Errorf("failed to parse transcript JSON: %w", err)
		}
		if strings.TrimSpace(doc.Text) == "" {
			return "", fmt.Errorf("transcript JSON %s has no \"text\" field", path)
		}
		return doc.Text, nil
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("transcript %s is empty", path)
	}
	return text, nil
}

func apiKeyFromEnv(provider summarize.Provider) string {
	switch provider {
	case summarize.ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case summarize.ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case summarize.ProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	default:
		return ""
	}
}
