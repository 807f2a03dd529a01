package render

import (
	"fmt"
	"strings"

	"github.com/hushnote/hushnote/internal/label"
	"github.com/hushnote/hushnote/internal/segment"
)

// plain text: one `[Name] text` block per line
type TextRenderer struct{}

// markdown: one `**Name**: text` paragraph per speaker turn
type MarkdownRenderer struct{}

func (r *TextRenderer) Render(segments []segment.Segment, labels *label.Store) (string, error) {
	return renderBlocks(segments, labels, func(name, text string) string {
		return fmt.Sprintf("[%s] %s", name, text)
	}, "\n")
}

func (r *MarkdownRenderer) Render(segments []segment.Segment, labels *label.Store) (string, error) {
	return renderBlocks(segments, labels, func(name, text string) string {
		return fmt.Sprintf("**%s**: %s", name, text)
	}, "\n\n")
}

// renderBlocks coalesces consecutive segments from the same resolved
// speaker into one block and formats each block with head.
func renderBlocks(
	segments []segment.Segment,
	labels *label.Store,
	head func(name, text string) string,
	separator string,
) (string, error) {
	var blocks []string
	currentName := ""
	var currentTexts []string

	flush := func() {
		if len(currentTexts) > 0 {
			blocks = append(blocks, head(currentName, strings.Join(currentTexts, " ")))
		}
		currentTexts = nil
	}

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		name := labels.Resolve(seg.SpeakerID)
		if name != currentName && len(currentTexts) > 0 {
			flush()
		}
		currentName = name
		currentTexts = append(currentTexts, text)
	}
	flush()

	return strings.Join(blocks, separator), nil
}
