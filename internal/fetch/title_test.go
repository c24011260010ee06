package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestTitle(t *testing.T) {
	var gotUA string
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `<html><head><title>  Example Domain  </title></head><body></body></html>`)
	})

	f := NewHTTP(HTTPConfig{Logger: testLogger()})
	got := f.Title(context.Background(), ts.URL)
	if got != "Example Domain" {
		t.Fatalf("Title = %q, want %q", got, "Example Domain")
	}
	if !strings.Contains(gotUA, "Mozilla/5.0") {
		t.Fatalf("expected browser-like user agent, got %q", gotUA)
	}
}

func TestTitleTruncated(t *testing.T) {
	long := strings.Repeat("x", 150)
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><head><title>%s</title></head></html>", long)
	})

	f := NewHTTP(HTTPConfig{Logger: testLogger()})
	got := f.Title(context.Background(), ts.URL)
	if len(got) != 100 {
		t.Fatalf("expected 100-char title, got %d chars", len(got))
	}
}

func TestTitleNon200(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	f := NewHTTP(HTTPConfig{Logger: testLogger()})
	if got := f.Title(context.Background(), ts.URL); got != "" {
		t.Fatalf("expected empty title on 404, got %q", got)
	}
}

func TestTitleMissingTag(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head></head><body><h1>No title here</h1></body></html>`)
	})

	f := NewHTTP(HTTPConfig{Logger: testLogger()})
	if got := f.Title(context.Background(), ts.URL); got != "" {
		t.Fatalf("expected empty title without <title>, got %q", got)
	}
}

func TestTitleUnreachable(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	url := ts.URL
	ts.Close()

	f := NewHTTP(HTTPConfig{Logger: testLogger()})
	if got := f.Title(context.Background(), url); got != "" {
		t.Fatalf("expected empty title for unreachable host, got %q", got)
	}
}
