package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"linklogger/internal/domain"
)

func newTestHF(t *testing.T, handler http.HandlerFunc) (*HuggingFace, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	hf := NewHuggingFace(HuggingFaceBackendConfig{
		APIKey:  "hf_testkey",
		APIBase: ts.URL,
		Logger:  testLogger(),
	})
	hf.warmupDelay = 10 * time.Millisecond
	return hf, ts
}

func TestHuggingFaceSummarize(t *testing.T) {
	var gotReq hfRequest
	var gotAuth string
	hf, _ := newTestHF(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if !strings.HasSuffix(r.URL.Path, "/models/facebook/bart-large-cnn") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode([]hfResult{{SummaryText: "breaking news about the go release"}})
	})

	got, err := hf.Summarize(context.Background(), domain.SummaryRequest{Content: "long article text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "breaking news about the go" {
		t.Fatalf("expected clamped summary, got %q", got)
	}
	if gotAuth != "Bearer hf_testkey" {
		t.Fatalf("expected bearer auth header, got %q", gotAuth)
	}
	if gotReq.Parameters.MaxLength != 15 || gotReq.Parameters.MinLength != 3 {
		t.Fatalf("unexpected generation parameters: %+v", gotReq.Parameters)
	}
}

func TestHuggingFaceRetriesWarmup(t *testing.T) {
	var calls int
	hf, _ := newTestHF(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, `{"error":"Model is currently loading"}`, http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode([]hfResult{{SummaryText: "ready now"}})
	})

	got, err := hf.Summarize(context.Background(), domain.SummaryRequest{Content: "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ready now" {
		t.Fatalf("expected summary after warmup retry, got %q", got)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestHuggingFaceGivesUpAfterOneRetry(t *testing.T) {
	var calls int
	hf, _ := newTestHF(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":"still loading"}`, http.StatusServiceUnavailable)
	})

	if _, err := hf.Summarize(context.Background(), domain.SummaryRequest{Content: "text"}); err == nil {
		t.Fatal("expected error after persistent 503")
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestHuggingFaceErrorStatus(t *testing.T) {
	hf, _ := newTestHF(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	})

	if _, err := hf.Summarize(context.Background(), domain.SummaryRequest{Content: "text"}); err == nil {
		t.Fatal("expected error on 401")
	}
}

func TestHuggingFaceEmptySummaryText(t *testing.T) {
	hf, _ := newTestHF(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]hfResult{{SummaryText: "   "}})
	})

	got, err := hf.Summarize(context.Background(), domain.SummaryRequest{Content: "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Summary generated" {
		t.Fatalf("expected placeholder for blank model output, got %q", got)
	}
}

func TestHuggingFaceBuildInput(t *testing.T) {
	hf := NewHuggingFace(HuggingFaceBackendConfig{Logger: testLogger()})

	in := hf.buildInput(domain.SummaryRequest{
		URL:     "https://example.com",
		Title:   "Example Domain",
		Content: "see https://example.com",
	})
	want := "Website: https://example.com. Title: Example Domain. Content: see https://example.com"
	if in != want {
		t.Fatalf("buildInput = %q, want %q", in, want)
	}

	in = hf.buildInput(domain.SummaryRequest{URL: "https://example.com", Content: "x"})
	if !strings.Contains(in, "Title: Unknown") {
		t.Fatalf("expected Unknown title placeholder, got %q", in)
	}
}
