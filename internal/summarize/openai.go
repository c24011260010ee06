package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"linklogger/internal/domain"
)

const openaiDefaultModel = "gpt-3.5-turbo"

// OpenAI summarizes through the chat-completion API.
type OpenAI struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

type OpenAIBackendConfig struct {
	APIKey string
	Model  string
	Logger *slog.Logger
	// Client overrides the default client, used by tests to point at a stub.
	Client *openai.Client
}

func NewOpenAI(cfg OpenAIBackendConfig) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = openaiDefaultModel
	}
	client := cfg.Client
	if client == nil {
		client = openai.NewClient(cfg.APIKey)
	}
	return &OpenAI{
		client: client,
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Healthy(ctx context.Context) error {
	if _, err := o.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai not reachable: %w", err)
	}
	return nil
}

func (o *OpenAI) Summarize(ctx context.Context, req domain.SummaryRequest) (string, error) {
	var prompt string
	if req.URL != "" {
		prompt = fmt.Sprintf("Summarize this URL in exactly 4-5 words: %s - %s", req.URL, req.Title)
	} else {
		prompt = fmt.Sprintf("Summarize this message in exactly 4-5 words: %s", truncateRunes(req.Content, 200))
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful assistant that creates very brief 4-5 word summaries.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   20,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return ClampWords(strings.TrimSpace(resp.Choices[0].Message.Content), maxSummaryWords), nil
}
