package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hushnote/hushnote/internal/label"
	"github.com/hushnote/hushnote/internal/segment"
)

var labelCmd = &cobra.Command{
	Use:   "label [merged_file]",
	Short: "Assign real names to detected speakers",
	Long: `Walk through each detected speaker, show sample quotes, and ask for
a real name. Press Enter to skip a speaker, type 'm' to see more quotes,
or 'q' to stop early (assignments so far are kept).

With --name you can label non-interactively:

  hushnote label meeting_diarized.json --name SPEAKER_00=Alice --name SPEAKER_01=Bob`,
	Args: cobra.ExactArgs(1),
	RunE: runLabel,
}

func init() {
	rootCmd.AddCommand(labelCmd)

	labelCmd.Flags().
		StringArray("name", nil, "Non-interactive assignment SPEAKER_ID=Name (repeatable)")
	labelCmd.Flags().
		Bool("strict", false, "Refuse to overwrite an existing label")
	labelCmd.Flags().
		Int("samples", label.DefaultSampleSize, "Number of sample quotes to show per speaker")
	labelCmd.Flags().
		Bool("non-interactive", false, "Skip the prompt loop; apply only --name assignments")
}

func runLabel(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	assignments, _ := cmd.Flags().GetStringArray("name")
	strict, _ := cmd.Flags().GetBool("strict")
	samples, _ := cmd.Flags().GetInt("samples")
	nonInteractive, _ := cmd.Flags().GetBool("non-interactive")

	doc, err := segment.LoadMerged(inputPath)
	if err != nil {
		return fmt.Errorf("failed to load merged file: %w", err)
	}

	store := label.NewFromMerged(doc)
	store.Strict = strict
	if samples > 0 {
		store.SampleSize = samples
	}

	speakers := store.Speakers()
	if len(speakers) == 0 {
		return fmt.Errorf("no speakers found in %s", inputPath)
	}

	if err := applyNameFlags(store, assignments); err != nil {
		return err
	}
	if len(assignments) == 0 && !nonInteractive {
		if err := labelInteractive(store, doc, speakers); err != nil {
			return err
		}
	}

	store.ApplyTo(doc)

	if outputPath == "" {
		outputPath = defaultLabeledPath(inputPath)
	}
	if err := doc.Save(outputPath); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("\nLabels saved: %s\n", absOutput)
	for _, id := range speakers {
		fmt.Printf("  %s -> %s\n", id, store.Resolve(id))
	}
	fmt.Printf("\nNext step: hushnote apply %s\n", outputPath)

	return nil
}

func applyNameFlags(store *label.Store, assignments []string) error {
	for _, a := range assignments {
		id, name, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("invalid --name value %q: expected SPEAKER_ID=Name", a)
		}
		if err := store.Assign(
			strings.TrimSpace(id), strings.TrimSpace(name), label.SourceManual, nil,
		); err != nil {
			return err
		}
	}
	return nil
}

func labelInteractive(store *label.Store, doc *segment.Merged, speakers []string) error {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("Found %d speakers. For each one, a few quotes are shown.\n", len(speakers))
	fmt.Println("Enter a name, press Enter to skip, 'm' for more quotes, 'q' to stop.")

	for _, id := range speakers {
		fmt.Printf("\n--- %s ---\n", id)
		if stats, ok := doc.SpeakerStats[id]; ok {
			fmt.Printf("Spoke for %.1fs over %d segments\n", stats.TotalTime, stats.SegmentCount)
		}

		sampleCount := store.SampleSize
		printQuotes(store.ProposeN(id, sampleCount), 0)

		for {
			fmt.Printf("Name for %s: ", id)
			if !scanner.Scan() {
				return scanner.Err()
			}
			answer := strings.TrimSpace(scanner.Text())

			switch answer {
			case "":
				if err := store.Assign(id, id, label.SourceSkipped, nil); err != nil {
					return err
				}
			case "m", "M":
				shown := sampleCount
				sampleCount += store.SampleSize
				printQuotes(store.ProposeN(id, sampleCount), shown)
				continue
			case "q", "Q":
				return nil
			default:
				if err := store.Assign(id, answer, label.SourceManual, nil); err != nil {
					return err
				}
			}
			break
		}
	}
	return nil
}

// printQuotes shows quotes starting at offset so 'm' only prints new ones.
func printQuotes(quotes []segment.Segment, offset int) {
	if len(quotes) <= offset {
		fmt.Println("  (no further quotes)")
		return
	}
	for _, q := range quotes[offset:] {
		text := strings.TrimSpace(q.Text)
		if len(text) > 160 {
			text = text[:157] + "..."
		}
		fmt.Printf("  [%.1fs] %q\n", q.Start, text)
	}
}

// defaultLabeledPath mirrors the artifact naming of the rest of the
// pipeline: meeting_diarized.json becomes meeting_speakers_labeled.json.
func defaultLabeledPath(inputPath string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	if stem, ok := strings.CutSuffix(base, "_diarized"); ok {
		return stem + "_speakers_labeled.json"
	}
	return base + "_labeled.json"
}
