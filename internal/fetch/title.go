// Package fetch resolves shared URLs to their page titles. Fetching is
// strictly best-effort enrichment: every failure path logs and returns "".
package fetch

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	// Browser-like UA so servers that block unknown clients still answer.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	maxTitleLen    = 100
	defaultTimeout = 10 * time.Second
)

// HTTP fetches page titles with a plain GET and an HTML parse.
type HTTP struct {
	client *http.Client
	logger *slog.Logger
}

type HTTPConfig struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewHTTP(cfg HTTPConfig) *HTTP {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &HTTP{
		client: &http.Client{Timeout: cfg.Timeout},
		logger: cfg.Logger,
	}
}

// Title returns the first <title> of the page at url, trimmed and truncated,
// or "" on any failure.
func (f *HTTP) Title(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		f.logger.Warn("title fetch: bad url", "url", url, "err", err)
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("title fetch failed", "url", url, "err", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("title fetch: non-200", "url", url, "status", resp.StatusCode)
		return ""
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		f.logger.Warn("title fetch: parse error", "url", url, "err", err)
		return ""
	}

	title := findTitle(doc)
	if title == "" {
		f.logger.Warn("title fetch: no title tag", "url", url)
	}
	return clampTitle(title)
}

// findTitle walks the parse tree and returns the text of the first <title>.
func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return sb.String()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func clampTitle(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > maxTitleLen {
		return string(r[:maxTitleLen])
	}
	return s
}
