package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hushnote/hushnote/internal/label"
	"github.com/hushnote/hushnote/internal/segment"
)

// ErrUnsupportedFormat reports an unrecognized output format identifier.
var ErrUnsupportedFormat = errors.New("unsupported format")

// represents supported transcript output formats
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatSRT      Format = "srt"
	FormatVTT      Format = "vtt"
)

// Renderer projects labeled segments into one output format. Segments are
// emitted in ascending start order with speaker IDs resolved through the
// store; zero segments produce a syntactically valid empty document.
type Renderer interface {
	Render(segments []segment.Segment, labels *label.Store) (string, error)
}

// NewRenderer creates a renderer for the given format.
func NewRenderer(format Format) (Renderer, error) {
	switch format {
	case FormatText:
		return &TextRenderer{}, nil
	case FormatMarkdown:
		return &MarkdownRenderer{}, nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	case FormatSRT:
		return &SRTRenderer{}, nil
	case FormatVTT:
		return &VTTRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ParseFormat validates a format identifier from user input.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatText, FormatMarkdown, FormatJSON, FormatSRT, FormatVTT:
		return format, nil
	default:
		return "", fmt.Errorf(
			"%w: %q (use txt, md, json, srt, or vtt)", ErrUnsupportedFormat, s,
		)
	}
}

// ExtensionForFormat returns the file extension for a format.
func ExtensionForFormat(format Format) string {
	return "." + string(format)
}

// FormatFromExtension maps a file extension to a format, defaulting to
// plain text.
func FormatFromExtension(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return FormatMarkdown
	case ".json":
		return FormatJSON
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	default:
		return FormatText
	}
}
