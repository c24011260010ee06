package summarize

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// retryPolicy is a bounded fixed-delay retry attached to a single backend
// call. Only responses matched by retryOn are retried; network errors are
// not, since the chain itself provides the fallback path.
type retryPolicy struct {
	maxRetries int
	delay      time.Duration
	retryOn    func(statusCode int) bool
}

// doWithRetry executes an HTTP request under the given policy. The caller
// owns the returned response body.
func doWithRetry(ctx context.Context, client *http.Client, buildReq func() (*http.Request, error), policy retryPolicy, logger *slog.Logger) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		req, err := buildReq()
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}

		if policy.retryOn != nil && policy.retryOn(resp.StatusCode) && attempt < policy.maxRetries {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			logger.Info("retryable status, waiting before retry",
				"status", resp.StatusCode,
				"delay", policy.delay,
				"attempt", attempt+1,
				"body", string(body),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(policy.delay):
			}
			continue
		}

		return resp, nil
	}
}
