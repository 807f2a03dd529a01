package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hushnote/hushnote/internal/label"
	"github.com/hushnote/hushnote/internal/render"
	"github.com/hushnote/hushnote/internal/segment"
)

var applyCmd = &cobra.Command{
	Use:     "apply [labeled_file]",
	Aliases: []string{"apply-labels"},
	Short:   "Render a labeled transcript to a readable format",
	Long: `Render a labeled document to its final form. Supported formats are
txt, md, json, srt, and vtt. Text and markdown output coalesces
consecutive segments from the same speaker into one block.

Examples:
  hushnote apply meeting_speakers_labeled.json
  hushnote apply meeting_speakers_labeled.json -f srt
  hushnote apply meeting_speakers_labeled.json -f md -o transcript.md`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().
		StringP("format", "f", "txt", "Output format (txt, md, json, srt, vtt)")
}

func runApply(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	format, err := render.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	doc, err := segment.LoadMerged(inputPath)
	if err != nil {
		return fmt.Errorf("failed to load labeled file: %w", err)
	}

	store := label.NewFromMerged(doc)
	renderer, err := render.NewRenderer(format)
	if err != nil {
		return err
	}

	out, err := renderer.Render(doc.Segments, store)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if outputPath == "" {
		outputPath = defaultRenderedPath(doc, inputPath, format)
	}

	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if err := os.WriteFile(outputPath, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Transcript written: %s\n", absOutput)

	return nil
}

// defaultRenderedPath names the final transcript after the source audio
// when the document records it, and after the input file otherwise.
func defaultRenderedPath(doc *segment.Merged, inputPath string, format render.Format) string {
	ext := render.ExtensionForFormat(format)
	if doc.AudioFile != "" {
		stem := strings.TrimSuffix(doc.AudioFile, filepath.Ext(doc.AudioFile))
		return filepath.Join(filepath.Dir(inputPath), stem+ext)
	}
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	base = strings.TrimSuffix(base, "_speakers_labeled")
	base = strings.TrimSuffix(base, "_labeled")
	return base + ext
}
