package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildPrompts(t *testing.T) {
	transcript := "[Alice] Let's ship on Friday."

	summary := BuildSummaryPrompt(transcript)
	if !strings.Contains(summary, transcript) {
		t.Error("summary prompt does not embed the transcript")
	}
	if !strings.Contains(summary, "Meeting Summary") {
		t.Error("summary prompt missing its instruction block")
	}

	items := BuildActionItemsPrompt(transcript)
	if !strings.Contains(items, transcript) {
		t.Error("action items prompt does not embed the transcript")
	}
	if !strings.Contains(items, "checklist") {
		t.Error("action items prompt missing checklist instruction")
	}
}

func TestRunPrompts(t *testing.T) {
	calls := 0
	generate := func(ctx context.Context, prompt string) (string, error) {
		calls++
		if strings.Contains(prompt, "Extract all action items") {
			return "- [ ] ship it\n", nil
		}
		return "A short meeting.\n", nil
	}

	result, err := runPrompts(context.Background(), generate, "some transcript", Options{ActionItems: true})
	if err != nil {
		t.Fatalf("runPrompts() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("generate called %d times, want 2", calls)
	}
	if result.Summary != "A short meeting." {
		t.Errorf("Summary = %q", result.Summary)
	}
	if result.ActionItems != "- [ ] ship it" {
		t.Errorf("ActionItems = %q", result.ActionItems)
	}
}

func TestRunPromptsSkipsActionItems(t *testing.T) {
	calls := 0
	generate := func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "summary", nil
	}

	result, err := runPrompts(context.Background(), generate, "transcript", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("generate called %d times, want 1", calls)
	}
	if result.ActionItems != "" {
		t.Errorf("ActionItems = %q, want empty", result.ActionItems)
	}
}

func TestRunPromptsEmptyTranscript(t *testing.T) {
	generate := func(ctx context.Context, prompt string) (string, error) {
		t.Fatal("generate should not be called")
		return "", nil
	}

	if _, err := runPrompts(context.Background(), generate, "   \n", Options{}); err == nil {
		t.Error("expected error for empty transcript")
	}
}

func TestResultMarkdown(t *testing.T) {
	r := &Result{Summary: "We met.", ActionItems: "- [ ] follow up"}

	md := r.Markdown()
	if !strings.HasPrefix(md, "# Meeting Summary\n\nWe met.\n") {
		t.Errorf("markdown = %q", md)
	}
	if !strings.Contains(md, "# Action Items\n\n- [ ] follow up\n") {
		t.Errorf("markdown missing action items section: %q", md)
	}

	bare := &Result{Summary: "We met."}
	if strings.Contains(bare.Markdown(), "Action Items") {
		t.Error("markdown includes an action items section without content")
	}
}

func TestOllamaSummarizer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Stream {
			t.Error("streaming requested")
		}
		if req.Model != "llama3.1:8b" {
			t.Errorf("model = %q", req.Model)
		}
		json.NewEncoder(w).Encode(ollamaResponse{Response: "generated summary"})
	}))
	defer server.Close()

	s, err := NewOllamaSummarizer(Options{Endpoint: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	result, err := s.Summarize(context.Background(), "a transcript")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if result.Summary != "generated summary" {
		t.Errorf("Summary = %q", result.Summary)
	}
}

func TestOllamaSummarizerErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantIn  string
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			},
			wantIn: "status 404",
		},
		{
			name: "error in body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(ollamaResponse{Error: "out of memory"})
			},
			wantIn: "out of memory",
		},
		{
			name: "empty response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(ollamaResponse{})
			},
			wantIn: "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			s, err := NewOllamaSummarizer(Options{Endpoint: server.URL})
			if err != nil {
				t.Fatal(err)
			}
			_, err = s.Summarize(context.Background(), "a transcript")
			if err == nil || !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantIn)
			}
		})
	}
}

func TestFactory(t *testing.T) {
	ctx := context.Background()

	if _, err := Factory(ctx, ProviderOllama, "", Options{}); err != nil {
		t.Errorf("ollama factory error = %v", err)
	}
	if _, err := Factory(ctx, Provider("copilot"), "", Options{}); err == nil {
		t.Error("unknown provider accepted")
	}
}
