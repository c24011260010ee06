package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"linklogger/internal/domain"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = ts.URL + "/v1"
	return NewOpenAI(OpenAIBackendConfig{
		Client: openai.NewClientWithConfig(cfg),
		Logger: testLogger(),
	})
}

func TestOpenAISummarize(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "Go article about generics feature today"}},
			},
		})
	})

	got, err := o.Summarize(context.Background(), domain.SummaryRequest{
		URL:   "https://example.com",
		Title: "Example",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Go article about generics feature" {
		t.Fatalf("expected clamped summary, got %q", got)
	}

	if gotReq.Model != "gpt-3.5-turbo" {
		t.Fatalf("unexpected model %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("expected system+user messages, got %+v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[1].Content, "https://example.com") {
		t.Fatalf("prompt missing url: %q", gotReq.Messages[1].Content)
	}
}

func TestOpenAINoChoices(t *testing.T) {
	o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
	})

	if _, err := o.Summarize(context.Background(), domain.SummaryRequest{Content: "x"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestOpenAIRequestError(t *testing.T) {
	o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusUnauthorized)
	})

	if _, err := o.Summarize(context.Background(), domain.SummaryRequest{Content: "x"}); err == nil {
		t.Fatal("expected error on 401")
	}
}
