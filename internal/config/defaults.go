package config

import (
	"os"
	"strconv"
)

// Defaults returns the default configuration. Required credentials are
// sourced from the environment so the relay runs without a config file when
// the variables are set.
func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        5000,
			WebhookPath: "/webhook",
		},
		Twilio: TwilioConfig{
			AccountSID: "${TWILIO_ACCOUNT_SID}",
			AuthToken:  "${TWILIO_AUTH_TOKEN}",
			FromNumber: "${TWILIO_PHONE_NUMBER}",
		},
		Telegram: TelegramConfig{
			Enabled: false,
		},
		Sheet: SheetConfig{
			Name:            "${SPREADSHEET_NAME}",
			CredentialsJSON: "${GOOGLE_SHEETS_CREDENTIALS}",
			ShareWith:       "${YOUR_EMAIL}",
		},
		Summarize: SummarizeConfig{
			Chain: []string{"huggingface", "openai"},
			HuggingFace: HuggingFaceConfig{
				APIKey:  "${HUGGINGFACE_API_KEY}",
				APIBase: "https://api-inference.huggingface.co",
				Model:   "facebook/bart-large-cnn",
			},
			Ollama: OllamaConfig{
				APIBase: "http://localhost:11434",
				Model:   "llama3.2:1b",
			},
			OpenAI: OpenAIConfig{
				APIKey: "${OPENAI_API_KEY}",
				Model:  "gpt-3.5-turbo",
			},
		},
		TitleFetch: TitleFetchConfig{
			Mode:           "http",
			TimeoutSeconds: 10,
		},
		Metrics: MetricsConfig{
			Enabled:  false,
			Endpoint: "/metrics",
		},
	}
}

// FromEnv returns the defaults with environment references expanded, used
// when no config file exists.
func FromEnv() *Config {
	cfg := Defaults()
	cfg.Twilio.AccountSID = ExpandEnvVars(cfg.Twilio.AccountSID)
	cfg.Twilio.AuthToken = ExpandEnvVars(cfg.Twilio.AuthToken)
	cfg.Twilio.FromNumber = ExpandEnvVars(cfg.Twilio.FromNumber)
	cfg.Sheet.Name = ExpandEnvVars(cfg.Sheet.Name)
	cfg.Sheet.CredentialsJSON = ExpandEnvVars(cfg.Sheet.CredentialsJSON)
	cfg.Sheet.ShareWith = ExpandEnvVars(cfg.Sheet.ShareWith)
	cfg.Summarize.HuggingFace.APIKey = ExpandEnvVars(cfg.Summarize.HuggingFace.APIKey)
	cfg.Summarize.OpenAI.APIKey = ExpandEnvVars(cfg.Summarize.OpenAI.APIKey)
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p >= 1 && p <= 65535 {
			cfg.Server.Port = p
		}
	}
	return cfg
}
