package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/hushnote/hushnote/internal/label"
	"github.com/hushnote/hushnote/internal/segment"
)

// SubRip format
type SRTRenderer struct{}

// WebVTT format
type VTTRenderer struct{}

func (r *SRTRenderer) Render(segments []segment.Segment, labels *label.Store) (string, error) {
	var sb strings.Builder
	cue := 1
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		// cue numbers stay contiguous even when empty segments are skipped
		sb.WriteString(fmt.Sprintf("%d\n", cue))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(seconds(seg.Start)),
			formatSRTTime(seconds(seg.End))))
		sb.WriteString(fmt.Sprintf("[%s] %s\n\n", labels.Resolve(seg.SpeakerID), text))
		cue++
	}
	return sb.String(), nil
}

func (r *VTTRenderer) Render(segments []segment.Segment, labels *label.Store) (string, error) {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	cue := 1
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		sb.WriteString(fmt.Sprintf("%d\n", cue))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatVTTTime(seconds(seg.Start)),
			formatVTTTime(seconds(seg.End))))
		sb.WriteString(fmt.Sprintf("[%s] %s\n\n", labels.Resolve(seg.SpeakerID), text))
		cue++
	}
	return sb.String(), nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func formatSRTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

func formatVTTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, secs, millis)
}
