package summarize

import (
	"context"
	"fmt"
	"strings"
)

// meeting summary with optional action items
type Result struct {
	Summary     string `json:"summary"`
	ActionItems string `json:"action_items,omitempty"`
}

// interface for transcript summarization
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (*Result, error)
}

// summarization service provider
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

type Options struct {
	Model       string
	Endpoint    string // ollama server URL
	ActionItems bool   // extract action items as a second pass
}

// creates a Summarizer based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Summarizer, error) {
	switch provider {
	case ProviderOllama:
		return NewOllamaSummarizer(opts)
	case ProviderOpenAI:
		return NewOpenAISummarizer(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicSummarizer(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiSummarizer(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported summarization provider: %s", provider)
	}
}

const summaryPrompt = `You are an AI assistant that creates concise meeting summaries. Analyze the following meeting transcription and provide:

1. **Meeting Summary**: A brief 2-3 sentence overview of the meeting
2. **Key Discussion Points**: Bullet points of main topics discussed
3. **Action Items**: Specific tasks or follow-ups identified (if any)
4. **Decisions Made**: Key decisions or conclusions reached (if any)
5. **Participants**: List any identifiable participants or speakers (if mentioned)

Transcription:
%s

Please format your response in markdown.`

const actionItemsPrompt = `Extract all action items and tasks from this meeting transcription. For each action item, identify:
- The task/action
- Who is responsible (if mentioned)
- Any deadlines or timeframes (if mentioned)

Transcription:
%s

Format as a markdown checklist with details.`

// BuildSummaryPrompt renders the main summary prompt for a transcript.
func BuildSummaryPrompt(transcript string) string {
	return fmt.Sprintf(summaryPrompt, transcript)
}

// BuildActionItemsPrompt renders the action items prompt for a transcript.
func BuildActionItemsPrompt(transcript string) string {
	return fmt.Sprintf(actionItemsPrompt, transcript)
}

// generate is the single-prompt completion call each provider implements.
type generateFunc func(ctx context.Context, prompt string) (string, error)

// runPrompts drives the one- or two-pass summarization shared by all
// providers.
func runPrompts(
	ctx context.Context,
	generate generateFunc,
	transcript string,
	opts Options,
) (*Result, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("transcript is empty")
	}

	summary, err := generate(ctx, BuildSummaryPrompt(transcript))
	if err != nil {
		return nil, fmt.Errorf("summary generation failed: %w", err)
	}

	result := &Result{Summary: strings.TrimSpace(summary)}

	if opts.ActionItems {
		items, err := generate(ctx, BuildActionItemsPrompt(transcript))
		if err != nil {
			return nil, fmt.Errorf("action items extraction failed: %w", err)
		}
		result.ActionItems = strings.TrimSpace(items)
	}

	return result, nil
}

// Markdown assembles the final notes document.
func (r *Result) Markdown() string {
	var sb strings.Builder
	sb.WriteString("# Meeting Summary\n\n")
	sb.WriteString(r.Summary)
	sb.WriteString("\n")
	if r.ActionItems != "" {
		sb.WriteString("\n# Action Items\n\n")
		sb.WriteString(r.ActionItems)
		sb.WriteString("\n")
	}
	return sb.String()
}
