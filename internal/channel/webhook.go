// Package channel hosts the inbound transports: the Twilio webhook HTTP
// server and the optional Telegram poller.
package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"linklogger/internal/domain"
	"linklogger/internal/metrics"
)

// MessageProcessor runs one inbound message through the relay pipeline.
type MessageProcessor interface {
	Process(ctx context.Context, msg domain.InboundMessage) string
}

// Webhook serves the Twilio inbound webhook and the health endpoint.
type Webhook struct {
	host      string
	port      int
	path      string
	processor MessageProcessor
	gateway   domain.Gateway
	metrics   bool
	endpoint  string
	logger    *slog.Logger
	server    *http.Server
}

type WebhookConfig struct {
	Host            string
	Port            int
	Path            string
	Processor       MessageProcessor
	Gateway         domain.Gateway
	MetricsEnabled  bool
	MetricsEndpoint string
	Logger          *slog.Logger
}

func NewWebhook(cfg WebhookConfig) *Webhook {
	if cfg.Path == "" {
		cfg.Path = "/webhook"
	}
	if cfg.Port == 0 {
		cfg.Port = 5000
	}
	if cfg.MetricsEndpoint == "" {
		cfg.MetricsEndpoint = "/metrics"
	}
	return &Webhook{
		host:      cfg.Host,
		port:      cfg.Port,
		path:      cfg.Path,
		processor: cfg.Processor,
		gateway:   cfg.Gateway,
		metrics:   cfg.MetricsEnabled,
		endpoint:  cfg.MetricsEndpoint,
		logger:    cfg.Logger,
	}
}

func (w *Webhook) Name() string { return "webhook" }

// Start runs the HTTP server until ctx is cancelled.
func (w *Webhook) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(w.path, w.handleWebhook)
	mux.HandleFunc("/health", w.handleHealth)
	if w.metrics {
		mux.HandleFunc(w.endpoint, metrics.Collector.Handler())
	}

	w.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", w.host, w.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	w.logger.Info("webhook server starting", "addr", w.server.Addr, "path", w.path)

	errCh := make(chan error, 1)
	go func() {
		if err := w.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		w.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return w.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("webhook server: %w", err)
	}
}

// handleWebhook accepts form-encoded Twilio message callbacks. The processor
// contract means no designed path reaches the 500 branch; the recover is a
// safety net against collaborator misbehavior.
func (w *Webhook) handleWebhook(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(rw, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			w.logger.Error("webhook handler panic", "err", rec)
			writeJSON(rw, http.StatusInternalServerError, map[string]string{
				"status":  "error",
				"message": fmt.Sprint(rec),
			})
		}
	}()

	if err := r.ParseForm(); err != nil {
		w.logger.Warn("webhook: bad form payload", "err", err)
	}
	body := r.PostFormValue("Body")
	sender := strings.TrimPrefix(r.PostFormValue("From"), "whatsapp:")

	if body != "" && sender != "" {
		reply := w.processor.Process(r.Context(), domain.InboundMessage{
			Channel:    "whatsapp",
			SenderID:   sender,
			Body:       body,
			ReceivedAt: time.Now(),
		})

		if err := w.gateway.Send(r.Context(), sender, reply); err != nil {
			metrics.GatewaySendErrors.Inc()
			w.logger.Error("reply send failed", "to", sender, "err", err)
		}
	} else {
		w.logger.Warn("webhook: missing Body or From, skipping",
			"has_body", body != "", "has_from", sender != "")
	}

	writeJSON(rw, http.StatusOK, map[string]string{"status": "success"})
}

func (w *Webhook) handleHealth(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(rw, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(rw, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(rw http.ResponseWriter, status int, payload map[string]string) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	json.NewEncoder(rw).Encode(payload)
}
