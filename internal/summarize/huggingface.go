package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"linklogger/internal/domain"
)

const (
	hfDefaultBase  = "https://api-inference.huggingface.co"
	hfDefaultModel = "facebook/bart-large-cnn"

	// The hosted model answers 503 while it is being loaded onto a worker.
	// One fixed-delay retry covers the common cold-start case.
	hfWarmupDelay = 10 * time.Second
	hfTimeout     = 30 * time.Second
)

// HuggingFace summarizes through the hosted inference API.
type HuggingFace struct {
	apiKey      string
	apiBase     string
	model       string
	warmupDelay time.Duration
	client      *http.Client
	logger      *slog.Logger
}

type HuggingFaceBackendConfig struct {
	APIKey  string
	APIBase string
	Model   string
	Logger  *slog.Logger
}

func NewHuggingFace(cfg HuggingFaceBackendConfig) *HuggingFace {
	if cfg.APIBase == "" {
		cfg.APIBase = hfDefaultBase
	}
	if cfg.Model == "" {
		cfg.Model = hfDefaultModel
	}
	return &HuggingFace{
		apiKey:      cfg.APIKey,
		apiBase:     cfg.APIBase,
		model:       cfg.Model,
		warmupDelay: hfWarmupDelay,
		client:      &http.Client{Timeout: hfTimeout},
		logger:      cfg.Logger,
	}
}

func (h *HuggingFace) Name() string { return "huggingface" }

func (h *HuggingFace) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", h.apiBase, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("huggingface not reachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("huggingface returned %d", resp.StatusCode)
	}
	return nil
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type hfResult struct {
	SummaryText string `json:"summary_text"`
}

func (h *HuggingFace) Summarize(ctx context.Context, req domain.SummaryRequest) (string, error) {
	body := hfRequest{
		Inputs: h.buildInput(req),
		Parameters: hfParameters{
			MaxLength: 15,
			MinLength: 3,
			DoSample:  false,
		},
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	buildReq := func() (*http.Request, error) {
		httpReq, err := http.NewRequestWithContext(ctx, "POST", h.apiBase+"/models/"+h.model, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if h.apiKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)
		}
		return httpReq, nil
	}

	policy := retryPolicy{
		maxRetries: 1,
		delay:      h.warmupDelay,
		retryOn: func(status int) bool {
			return status == http.StatusServiceUnavailable
		},
	}

	resp, err := doWithRetry(ctx, h.client, buildReq, policy, h.logger)
	if err != nil {
		return "", fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("huggingface %d: %s", resp.StatusCode, string(respBody))
	}

	var results []hfResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("huggingface returned no results")
	}

	summary := ClampWords(results[0].SummaryText, maxSummaryWords)
	if summary == "" {
		// Successful call with an empty text still counts as a summary.
		return "Summary generated", nil
	}
	return summary, nil
}

// buildInput limits the text sent for summarization and frames link requests
// with the URL and its fetched title.
func (h *HuggingFace) buildInput(req domain.SummaryRequest) string {
	if req.URL != "" {
		title := req.Title
		if title == "" {
			title = "Unknown"
		}
		return fmt.Sprintf("Website: %s. Title: %s. Content: %s", req.URL, title, truncateRunes(req.Content, 300))
	}
	return truncateRunes(req.Content, 500)
}
