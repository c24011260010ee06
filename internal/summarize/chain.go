// Package summarize produces short human-readable summaries of messages and
// shared links through an ordered fallback chain of backends.
package summarize

import (
	"context"
	"log/slog"
	"strings"

	"linklogger/internal/domain"
	"linklogger/internal/metrics"
)

// maxSummaryWords caps every summary the chain returns.
const maxSummaryWords = 5

// SummaryUnavailable is the chain's terminal failure text. With the keyword
// backend appended as the terminal strategy it is not reachable in practice;
// it guards a chain constructed without one.
const SummaryUnavailable = "Summary unavailable"

// Chain tries summarization backends in order until one yields a non-empty
// result. The page title is fetched once per request and shared with every
// backend. Summarize never fails and never returns an empty string as long
// as the chain ends in the keyword backend.
type Chain struct {
	backends []domain.Summarizer
	titles   domain.TitleFetcher
	logger   *slog.Logger
}

// NewChain creates a summarizer chain. titles may be nil when no backend
// needs page titles (tests).
func NewChain(backends []domain.Summarizer, titles domain.TitleFetcher, logger *slog.Logger) *Chain {
	return &Chain{
		backends: backends,
		titles:   titles,
		logger:   logger,
	}
}

// Backends exposes the ordered backend list for health reporting.
func (c *Chain) Backends() []domain.Summarizer {
	return c.backends
}

func (c *Chain) Name() string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return "chain(" + strings.Join(names, "→") + ")"
}

// Summarize returns a summary of content (optionally in the context of url),
// at most 5 words, never empty.
func (c *Chain) Summarize(ctx context.Context, content, url string) string {
	req := domain.SummaryRequest{Content: content, URL: url}
	if url != "" && c.titles != nil {
		req.Title = c.titles.Title(ctx, url)
	}

	for i, b := range c.backends {
		s, err := b.Summarize(ctx, req)
		if err != nil {
			c.logger.Warn("summarizer failed, trying next",
				"backend", b.Name(),
				"attempt", i+1,
				"error", err,
			)
			continue
		}
		s = ClampWords(s, maxSummaryWords)
		if s == "" {
			c.logger.Warn("summarizer returned empty result, trying next",
				"backend", b.Name(),
				"attempt", i+1,
			)
			continue
		}
		if i > 0 {
			metrics.SummaryFallbacks.Inc()
			c.logger.Info("summary from fallback backend",
				"backend", b.Name(),
				"attempt", i+1,
			)
		}
		return s
	}

	c.logger.Error("no summarizer backend produced a result")
	return SummaryUnavailable
}

// ClampWords keeps the first n whitespace-separated words of s.
func ClampWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
