package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hushnote/hushnote/internal/audio"
	"github.com/hushnote/hushnote/internal/segment"
)

// implements Transcriber using the OpenAI Audio API
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

// segment from the Whisper verbose_json response
type verboseSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// verbose_json response structure
type verboseResponse struct {
	Text     string           `json:"text"`
	Segments []verboseSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAITranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes a single audio file
func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*segment.Transcription, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	}
	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}
	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	return t.parseVerboseJSONResponse(resp.RawJSON(), resp.Text)
}

func (t *OpenAITranscriber) parseVerboseJSONResponse(
	rawJSON, fallbackText string,
) (*segment.Transcription, error) {
	var parsed verboseResponse
	if rawJSON != "" {
		if err := json.Unmarshal([]byte(rawJSON), &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
		}
	}

	if len(parsed.Segments) == 0 {
		text := strings.TrimSpace(parsed.Text)
		if text == "" {
			text = strings.TrimSpace(fallbackText)
		}
		if text == "" {
			return nil, fmt.Errorf("no segments or text in response")
		}
		// whole-file fallback when the API returned no timestamps
		return &segment.Transcription{
			Language: parsed.Language,
			Duration: parsed.Duration,
			Model:    t.model,
			Segments: []segment.Segment{{Start: 0, End: parsed.Duration, Text: text}},
			Text:     text,
		}, nil
	}

	segments := make([]segment.Segment, 0, len(parsed.Segments))
	var fullText []string
	for _, s := range parsed.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		segments = append(segments, segment.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  text,
		})
		fullText = append(fullText, text)
	}

	return &segment.Transcription{
		Language: parsed.Language,
		Duration: parsed.Duration,
		Model:    t.model,
		Segments: segments,
		Text:     strings.Join(fullText, " "),
	}, nil
}

// transcribes a single chunk and shifts timestamps by the chunk offset
func (t *OpenAITranscriber) transcribeChunk(
	ctx context.Context,
	chunk audio.ChunkInfo,
) ([]segment.Segment, error) {
	result, err := t.Transcribe(ctx, chunk.Path)
	if err != nil {
		return nil, err
	}

	offset := chunk.StartTime.Seconds()
	adjusted := make([]segment.Segment, len(result.Segments))
	for i, seg := range result.Segments {
		adjusted[i] = segment.Segment{
			Start: seg.Start + offset,
			End:   seg.End + offset,
			Text:  seg.Text,
		}
	}
	return adjusted, nil
}

type chunkResult struct {
	Index    int
	Segments []segment.Segment
	Error    error
}

// TranscribeWithChunks transcribes chunks in parallel and stitches the
// results back together in chunk order. Long recordings exceed the API
// upload limit as a single file.
func (t *OpenAITranscriber) TranscribeWithChunks(
	ctx context.Context,
	chunks []audio.ChunkInfo,
	concurrency int,
) (*segment.Transcription, error) {
	if len(chunks) == 0 {
		return &segment.Transcription{Model: t.model}, nil
	}
	if concurrency <= 0 {
		concurrency = 3
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workChan := make(chan audio.ChunkInfo)
	resultChan := make(chan chunkResult, len(chunks))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case chunk, ok := <-workChan:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					segments, err := t.transcribeChunk(ctx, chunk)
					if err != nil {
						cancel()
					}
					resultChan <- chunkResult{
						Index:    chunk.Index,
						Segments: segments,
						Error:    err,
					}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for _, chunk := range chunks {
			select {
			case <-ctx.Done():
				return
			case workChan <- chunk:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]chunkResult, 0, len(chunks))
	var firstErr error
	for result := range resultChan {
		if result.Error != nil && firstErr == nil {
			firstErr = fmt.Errorf("chunk %d failed: %w", result.Index, result.Error)
			cancel()
		}
		if result.Error == nil {
			results = append(results, result)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	// restore chunk order
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	var allSegments []segment.Segment
	var fullText []string
	for _, r := range results {
		allSegments = append(allSegments, r.Segments...)
		for _, s := range r.Segments {
			fullText = append(fullText, s.Text)
		}
	}

	return &segment.Transcription{
		Language: t.options.Language,
		Duration: chunks[len(chunks)-1].EndTime.Seconds(),
		Model:    t.model,
		Segments: allSegments,
		Text:     strings.Join(fullText, " "),
	}, nil
}
