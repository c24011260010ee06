// Package relay orchestrates the message pipeline: link extraction,
// summarization, spreadsheet logging and reply composition.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"linklogger/internal/domain"
	"linklogger/internal/extract"
	"linklogger/internal/metrics"
)

// Summarizer is the chain capability the processor needs.
type Summarizer interface {
	Summarize(ctx context.Context, content, url string) string
}

// Processor handles one inbound message end to end. Process cannot fail:
// every collaborator swallows its own failures behind a documented fallback.
type Processor struct {
	chain  Summarizer
	sink   domain.EventSink
	logger *slog.Logger
}

type ProcessorConfig struct {
	Chain  Summarizer
	Sink   domain.EventSink
	Logger *slog.Logger
}

func NewProcessor(cfg ProcessorConfig) *Processor {
	return &Processor{
		chain:  cfg.Chain,
		sink:   cfg.Sink,
		logger: cfg.Logger,
	}
}

// Process logs one event per link found in the message body (or one message
// event when no link is present) and returns the acknowledgment reply text.
func (p *Processor) Process(ctx context.Context, msg domain.InboundMessage) string {
	p.logger.Info("processing message",
		"channel", msg.Channel, "sender", msg.SenderID, "len", len(msg.Body))
	metrics.MessagesTotal.Inc()

	at := msg.ReceivedAt
	if at.IsZero() {
		at = time.Now()
	}

	urls := extract.URLs(msg.Body)
	if len(urls) == 0 {
		summary := p.summarize(ctx, msg.Body, "")
		p.log(ctx, domain.LoggedEvent{
			Kind:    domain.KindMessage,
			Content: msg.Body,
			Summary: summary,
			Sender:  msg.SenderID,
			At:      at,
		})
		return "✅ Message logged to your spreadsheet!"
	}

	// One event per occurrence: a link pasted twice is logged twice.
	for _, u := range urls {
		summary := p.summarize(ctx, msg.Body, u)
		p.log(ctx, domain.LoggedEvent{
			Kind:    domain.KindLink,
			Content: msg.Body,
			URL:     u,
			Summary: summary,
			Sender:  msg.SenderID,
			At:      at,
		})
		metrics.LinksTotal.Inc()
	}
	return fmt.Sprintf("✅ Logged %d link(s) to your spreadsheet!", len(urls))
}

func (p *Processor) summarize(ctx context.Context, content, url string) string {
	start := time.Now()
	summary := p.chain.Summarize(ctx, content, url)
	metrics.SummaryLatency.Observe(time.Since(start).Seconds())
	return summary
}

// log appends the event; a sink failure is logged and swallowed so the
// sender still gets an acknowledgment.
func (p *Processor) log(ctx context.Context, evt domain.LoggedEvent) {
	if err := p.sink.Append(ctx, evt); err != nil {
		p.logger.Error("event append failed",
			"kind", evt.Kind, "sender", evt.Sender, "err", err)
	}
}
