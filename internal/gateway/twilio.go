// Package gateway sends outbound replies through messaging providers.
package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	twilioAPIBase = "https://api.twilio.com/2010-04-01"

	// Twilio addresses WhatsApp endpoints with a transport-scheme prefix.
	whatsappPrefix = "whatsapp:"

	twilioTimeout = 30 * time.Second
)

// Twilio implements domain.Gateway for the Twilio WhatsApp messaging API.
type Twilio struct {
	accountSID string
	authToken  string
	fromNumber string
	apiBase    string
	client     *http.Client
	logger     *slog.Logger
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	APIBase    string // overridable for tests
	Logger     *slog.Logger
}

func NewTwilio(cfg TwilioConfig) *Twilio {
	if cfg.APIBase == "" {
		cfg.APIBase = twilioAPIBase
	}
	return &Twilio{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		apiBase:    cfg.APIBase,
		client:     &http.Client{Timeout: twilioTimeout},
		logger:     cfg.Logger,
	}
}

func (t *Twilio) Name() string { return "twilio" }

// Send delivers a WhatsApp message to the given number (without prefix).
func (t *Twilio) Send(ctx context.Context, to string, body string) error {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.apiBase, t.accountSID)

	form := url.Values{}
	form.Set("To", whatsappPrefix+to)
	form.Set("From", whatsappPrefix+t.fromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio API %d: %s", resp.StatusCode, string(respBody))
	}

	t.logger.Info("message sent", "to", to, "len", len(body))
	return nil
}
