package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// Browser fetches page titles with a headless Chrome navigation. Useful for
// pages that only render their title client-side; slower than HTTP mode.
type Browser struct {
	timeout time.Duration
	logger  *slog.Logger
}

type BrowserConfig struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewBrowser(cfg BrowserConfig) *Browser {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Browser{timeout: cfg.Timeout, logger: cfg.Logger}
}

// Title navigates to url and reads the document title, or "" on any failure.
func (b *Browser) Title(ctx context.Context, url string) string {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.UserAgent(userAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	taskCtx, timeoutCancel := context.WithTimeout(taskCtx, b.timeout)
	defer timeoutCancel()

	var title string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.Title(&title),
	)
	if err != nil {
		b.logger.Warn("browser title fetch failed", "url", url, "err", err)
		return ""
	}
	return clampTitle(title)
}
