package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linklogger/internal/channel"
	"linklogger/internal/config"
	"linklogger/internal/domain"
	"linklogger/internal/fetch"
	"linklogger/internal/gateway"
	"linklogger/internal/relay"
	"linklogger/internal/sheet"
	"linklogger/internal/summarize"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "linklogger",
		Short: "linklogger: WhatsApp link and message logger",
		Long:  "linklogger relays WhatsApp messages to a Google Sheets log, summarizing every message and shared link on the way.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default: ~/.linklogger/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(configCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

// loadConfig reads the config file, or falls back to environment-backed
// defaults when no file exists. Validation failures are setup-fatal.
func loadConfig() (*config.Config, error) {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	logger.Info("config file not found, using environment", "path", cfgPath)
	cfg = config.FromEnv()
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger builds the process logger from config.
func setupLogger(cfg config.GeneralConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var out io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Warn("cannot open log file, using stderr", "path", cfg.LogFile, "err", err)
		} else {
			out = io.MultiWriter(os.Stderr, f)
		}
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			if configPath == "" {
				if err := os.MkdirAll(config.DefaultConfigDir(), 0o755); err != nil {
					return err
				}
			}
			if err := config.Save(cfgPath, config.Defaults()); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server",
		Long:  "Starts the Twilio webhook server (and the Telegram channel when enabled). Press Ctrl+C to stop.",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger = setupLogger(cfg.General)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The sheet is best-effort: a setup failure degrades logging to a no-op
	// instead of refusing to serve.
	var sink *sheet.Sink
	client, err := sheet.NewClient(ctx, sheet.ClientConfig{
		CredentialsJSON: cfg.Sheet.CredentialsJSON,
		SpreadsheetName: cfg.Sheet.Name,
		ShareWith:       cfg.Sheet.ShareWith,
		Logger:          logger,
	})
	if err != nil {
		logger.Error("spreadsheet setup failed, event logging disabled", "err", err)
		sink = sheet.NewSink(nil, logger)
	} else {
		logger.Info("spreadsheet ready", "name", cfg.Sheet.Name)
		sink = sheet.NewSink(client, logger)
	}

	titles := newTitleFetcher(cfg, logger)

	chain, err := summarize.BuildChain(cfg.Summarize, titles, logger)
	if err != nil {
		return fmt.Errorf("summarizer chain: %w", err)
	}
	logger.Info("summarizer chain ready", "chain", chain.Name())

	gw := gateway.NewTwilio(gateway.TwilioConfig{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		FromNumber: cfg.Twilio.FromNumber,
		Logger:     logger,
	})

	processor := relay.NewProcessor(relay.ProcessorConfig{
		Chain:  chain,
		Sink:   sink,
		Logger: logger,
	})

	if cfg.Telegram.Enabled {
		tg := channel.NewTelegram(channel.TelegramChannelConfig{
			Token:     cfg.Telegram.Token,
			AllowFrom: cfg.Telegram.AllowFrom,
			Processor: processor,
			Logger:    logger,
		})
		go func() {
			if err := tg.Start(ctx); err != nil {
				logger.Error("telegram channel error", "err", err)
			}
		}()
		logger.Info("telegram channel enabled")
	}

	web := channel.NewWebhook(channel.WebhookConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		Path:            cfg.Server.WebhookPath,
		Processor:       processor,
		Gateway:         gw,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsEndpoint: cfg.Metrics.Endpoint,
		Logger:          logger,
	})

	logger.Info("linklogger starting", "version", version)
	return web.Start(ctx)
}

// newTitleFetcher picks the title-fetch implementation from config.
func newTitleFetcher(cfg *config.Config, logger *slog.Logger) domain.TitleFetcher {
	timeout := time.Duration(cfg.TitleFetch.TimeoutSeconds) * time.Second
	if cfg.TitleFetch.Mode == "browser" {
		return fetch.NewBrowser(fetch.BrowserConfig{Timeout: timeout, Logger: logger})
	}
	return fetch.NewHTTP(fetch.HTTPConfig{Timeout: timeout, Logger: logger})
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check collaborator health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()

			chain, err := summarize.BuildChain(cfg.Summarize, nil, logger)
			if err != nil {
				return err
			}
			logger.Info("summarizer chain", "chain", chain.Name())
			for _, b := range chain.Backends() {
				if err := b.Healthy(ctx); err != nil {
					logger.Warn("backend unhealthy", "backend", b.Name(), "err", err)
				} else {
					logger.Info("backend healthy", "backend", b.Name())
				}
			}

			client, err := sheet.NewClient(ctx, sheet.ClientConfig{
				CredentialsJSON: cfg.Sheet.CredentialsJSON,
				SpreadsheetName: cfg.Sheet.Name,
				ShareWith:       cfg.Sheet.ShareWith,
				Logger:          logger,
			})
			if err != nil {
				logger.Warn("spreadsheet unreachable", "err", err)
			} else if err := client.Healthy(ctx); err != nil {
				logger.Warn("spreadsheet unhealthy", "err", err)
			} else {
				logger.Info("spreadsheet healthy", "name", cfg.Sheet.Name)
			}
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the config with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			data, _ := json.MarshalIndent(config.Sanitize(cfg), "", "  ")
			fmt.Println(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(resolveConfigPath())
		},
	})

	return cmd
}
