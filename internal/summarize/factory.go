package summarize

import (
	"fmt"
	"log/slog"

	"linklogger/internal/config"
	"linklogger/internal/domain"
)

// BuildChain constructs the summarizer chain from config. The keyword
// backend is always appended as the terminal strategy so the chain can never
// return an empty summary.
func BuildChain(cfg config.SummarizeConfig, titles domain.TitleFetcher, logger *slog.Logger) (*Chain, error) {
	var backends []domain.Summarizer
	haveKeyword := false

	for _, name := range cfg.Chain {
		switch name {
		case "huggingface":
			backends = append(backends, NewHuggingFace(HuggingFaceBackendConfig{
				APIKey:  cfg.HuggingFace.APIKey,
				APIBase: cfg.HuggingFace.APIBase,
				Model:   cfg.HuggingFace.Model,
				Logger:  logger,
			}))
		case "ollama":
			backends = append(backends, NewOllama(OllamaBackendConfig{
				APIBase: cfg.Ollama.APIBase,
				Model:   cfg.Ollama.Model,
				Logger:  logger,
			}))
		case "openai":
			backends = append(backends, NewOpenAI(OpenAIBackendConfig{
				APIKey: cfg.OpenAI.APIKey,
				Model:  cfg.OpenAI.Model,
				Logger: logger,
			}))
		case "keyword":
			backends = append(backends, NewKeyword(logger))
			haveKeyword = true
		default:
			return nil, fmt.Errorf("unknown summarizer backend: %s", name)
		}
	}

	if !haveKeyword {
		backends = append(backends, NewKeyword(logger))
	}

	return NewChain(backends, titles, logger), nil
}
