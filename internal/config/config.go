package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for linklogger.
type Config struct {
	General    GeneralConfig    `json:"general" yaml:"general"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Twilio     TwilioConfig     `json:"twilio" yaml:"twilio"`
	Telegram   TelegramConfig   `json:"telegram" yaml:"telegram"`
	Sheet      SheetConfig      `json:"sheet" yaml:"sheet"`
	Summarize  SummarizeConfig  `json:"summarize" yaml:"summarize"`
	TitleFetch TitleFetchConfig `json:"titleFetch" yaml:"titleFetch"`
	Metrics    MetricsConfig    `json:"metrics" yaml:"metrics"`
}

type GeneralConfig struct {
	LogLevel string `json:"logLevel" yaml:"logLevel"`
	LogFile  string `json:"logFile,omitempty" yaml:"logFile,omitempty"`
}

// ServerConfig configures the inbound webhook HTTP server.
type ServerConfig struct {
	Host        string `json:"host" yaml:"host"`
	Port        int    `json:"port" yaml:"port"`
	WebhookPath string `json:"webhookPath" yaml:"webhookPath"`
}

// TwilioConfig configures the outbound WhatsApp gateway. All three values are
// required for serving traffic.
type TwilioConfig struct {
	AccountSID string `json:"accountSid" yaml:"accountSid"`
	AuthToken  string `json:"authToken" yaml:"authToken"`
	FromNumber string `json:"fromNumber" yaml:"fromNumber"`
}

// TelegramConfig configures the optional Telegram inbound channel.
type TelegramConfig struct {
	Enabled   bool     `json:"enabled" yaml:"enabled"`
	Token     string   `json:"token,omitempty" yaml:"token,omitempty"`
	AllowFrom []string `json:"allowFrom,omitempty" yaml:"allowFrom,omitempty"`
}

// SheetConfig configures the Google Sheets backing store.
type SheetConfig struct {
	Name            string `json:"name" yaml:"name"`
	CredentialsJSON string `json:"credentialsJson" yaml:"credentialsJson"`
	ShareWith       string `json:"shareWith,omitempty" yaml:"shareWith,omitempty"`
}

// SummarizeConfig configures the summarizer fallback chain. Chain lists
// backend names tried in order; the deterministic keyword fallback is always
// appended as the terminal strategy.
type SummarizeConfig struct {
	Chain       []string          `json:"chain" yaml:"chain"`
	HuggingFace HuggingFaceConfig `json:"huggingface" yaml:"huggingface"`
	Ollama      OllamaConfig      `json:"ollama" yaml:"ollama"`
	OpenAI      OpenAIConfig      `json:"openai" yaml:"openai"`
}

type HuggingFaceConfig struct {
	APIKey  string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	APIBase string `json:"apiBase,omitempty" yaml:"apiBase,omitempty"`
	Model   string `json:"model,omitempty" yaml:"model,omitempty"`
}

type OllamaConfig struct {
	APIBase string `json:"apiBase,omitempty" yaml:"apiBase,omitempty"`
	Model   string `json:"model,omitempty" yaml:"model,omitempty"`
}

type OpenAIConfig struct {
	APIKey string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	Model  string `json:"model,omitempty" yaml:"model,omitempty"`
}

// TitleFetchConfig configures the page-title fetcher.
type TitleFetchConfig struct {
	Mode           string `json:"mode" yaml:"mode"` // "http" | "browser"
	TimeoutSeconds int    `json:"timeoutSeconds" yaml:"timeoutSeconds"`
}

type MetricsConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// DefaultConfigDir returns the default config directory (~/.linklogger).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".linklogger"
	}
	return filepath.Join(home, ".linklogger")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// Load reads the config file at path (JSON or YAML by extension), expands
// ${VAR} environment references and validates the result.
func Load(path string) (*Config, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset
// or empty. An unset ${VAR} without a default expands to "" so that required
// values fail validation instead of leaking the placeholder into requests.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			return defaultVal
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks that the config has valid values. Missing required
// credentials are setup-fatal: serve refuses to start without them.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Twilio.AccountSID == "" {
		errs = append(errs, "twilio.accountSid is required (TWILIO_ACCOUNT_SID)")
	}
	if cfg.Twilio.AuthToken == "" {
		errs = append(errs, "twilio.authToken is required (TWILIO_AUTH_TOKEN)")
	}
	if cfg.Twilio.FromNumber == "" {
		errs = append(errs, "twilio.fromNumber is required (TWILIO_PHONE_NUMBER)")
	}
	if cfg.Sheet.Name == "" {
		errs = append(errs, "sheet.name is required (SPREADSHEET_NAME)")
	}
	if cfg.Sheet.CredentialsJSON == "" {
		errs = append(errs, "sheet.credentialsJson is required (GOOGLE_SHEETS_CREDENTIALS)")
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}
	if !strings.HasPrefix(cfg.Server.WebhookPath, "/") {
		errs = append(errs, "server.webhookPath must start with /")
	}

	switch cfg.TitleFetch.Mode {
	case "", "http", "browser":
		// valid
	default:
		errs = append(errs, "titleFetch.mode must be one of: http, browser")
	}
	if cfg.TitleFetch.TimeoutSeconds < 1 {
		errs = append(errs, "titleFetch.timeoutSeconds must be >= 1")
	}

	if len(cfg.Summarize.Chain) == 0 {
		errs = append(errs, "summarize.chain must list at least one backend")
	}
	for _, name := range cfg.Summarize.Chain {
		switch name {
		case "huggingface", "ollama", "openai", "keyword":
			// valid
		default:
			errs = append(errs, fmt.Sprintf("summarize.chain references unknown backend: %s", name))
		}
	}

	if cfg.Telegram.Enabled && cfg.Telegram.Token == "" {
		errs = append(errs, "telegram.token is required when telegram.enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Sanitize returns a deep copy of cfg with secrets masked, for display.
func Sanitize(cfg *Config) *Config {
	data, err := json.Marshal(cfg)
	if err != nil {
		return cfg
	}
	var copy Config
	if err := json.Unmarshal(data, &copy); err != nil {
		return cfg
	}

	copy.Twilio.AuthToken = maskString(copy.Twilio.AuthToken)
	copy.Telegram.Token = maskString(copy.Telegram.Token)
	copy.Summarize.HuggingFace.APIKey = maskString(copy.Summarize.HuggingFace.APIKey)
	copy.Summarize.OpenAI.APIKey = maskString(copy.Summarize.OpenAI.APIKey)
	if copy.Sheet.CredentialsJSON != "" {
		copy.Sheet.CredentialsJSON = "***"
	}

	return &copy
}

// maskString shows first 4 and last 4 chars, masks the rest.
func maskString(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
