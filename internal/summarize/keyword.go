package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"linklogger/internal/domain"
)

// stopWords are dropped during keyword extraction.
var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true,
	"on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true,
	"were": true, "a": true, "an": true,
}

// domainSuffixes removes the common TLD noise from a host before it is used
// as a summary word.
var domainSuffixes = strings.NewReplacer(".com", "", ".org", "", ".net", "")

// Keyword is the deterministic terminal summarizer. It needs no network and
// always yields a non-empty result.
type Keyword struct {
	logger *slog.Logger
}

func NewKeyword(logger *slog.Logger) *Keyword {
	return &Keyword{logger: logger}
}

func (k *Keyword) Name() string { return "keyword" }

func (k *Keyword) Healthy(ctx context.Context) error { return nil }

func (k *Keyword) Summarize(ctx context.Context, req domain.SummaryRequest) (string, error) {
	if req.URL != "" {
		return k.fromURL(req.URL), nil
	}
	return k.fromContent(req.Content), nil
}

// fromURL derives "{host} link shared" from the link's host name.
func (k *Keyword) fromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		k.logger.Warn("keyword summary: unparseable url", "url", raw, "err", err)
		return "content logged"
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	host = domainSuffixes.Replace(host)
	return fmt.Sprintf("%s link shared", host)
}

// fromContent keeps the first 4 significant words of the message.
func (k *Keyword) fromContent(content string) string {
	words := strings.Fields(strings.ToLower(content))
	keywords := make([]string, 0, 4)
	for _, w := range words {
		if len(w) > 3 && !stopWords[w] {
			keywords = append(keywords, w)
			if len(keywords) == 4 {
				break
			}
		}
	}
	if len(keywords) == 0 {
		return "message received"
	}
	return strings.Join(keywords, " ")
}
