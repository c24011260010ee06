package domain

import "context"

// SummaryRequest is the ephemeral input to a summarizer. Title is the
// best-effort page title for URL (may be empty).
type SummaryRequest struct {
	Content string
	URL     string
	Title   string
}

// Summarizer is the interface all summarization backends must implement.
// A backend returns an error (or an empty string) when it cannot produce a
// summary; the chain then moves on to the next backend.
type Summarizer interface {
	Summarize(ctx context.Context, req SummaryRequest) (string, error)
	Name() string
	Healthy(ctx context.Context) error
}

// TitleFetcher resolves a URL to its page title. Implementations are strictly
// best-effort and return "" on any failure.
type TitleFetcher interface {
	Title(ctx context.Context, url string) string
}
