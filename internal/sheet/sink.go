package sheet

import (
	"context"
	"fmt"
	"log/slog"

	"linklogger/internal/domain"
	"linklogger/internal/metrics"
)

// rowAppender is the slice of Client the sink needs.
type rowAppender interface {
	AppendRow(ctx context.Context, row []any) error
}

// Sink implements domain.EventSink on top of the spreadsheet client. A nil
// client (sheet setup failed at startup) degrades every append to a logged
// no-op so message processing is never blocked by the log.
type Sink struct {
	client rowAppender
	logger *slog.Logger
}

func NewSink(client rowAppender, logger *slog.Logger) *Sink {
	return &Sink{client: client, logger: logger}
}

func (s *Sink) Append(ctx context.Context, evt domain.LoggedEvent) error {
	if s.client == nil {
		s.logger.Error("spreadsheet not configured, dropping event",
			"kind", evt.Kind, "sender", evt.Sender)
		return nil
	}

	if err := s.client.AppendRow(ctx, BuildRow(evt)); err != nil {
		metrics.SheetAppendErrors.Inc()
		return fmt.Errorf("log event: %w", err)
	}

	s.logger.Info("event logged to spreadsheet",
		"kind", evt.Kind, "summary", evt.Summary)
	return nil
}

// BuildRow formats a logged event as the 7-column sheet row.
func BuildRow(evt domain.LoggedEvent) []any {
	return []any{
		evt.At.Format("2006-01-02"),
		evt.At.Format("15:04:05"),
		string(evt.Kind),
		domain.TruncateContent(evt.Content),
		evt.URL,
		evt.Summary,
		evt.Sender,
	}
}
