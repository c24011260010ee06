package sheet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"linklogger/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockAppender struct {
	rows [][]any
	err  error
}

func (m *mockAppender) AppendRow(ctx context.Context, row []any) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, row)
	return nil
}

func TestBuildRow(t *testing.T) {
	at := time.Date(2026, 8, 26, 14, 30, 5, 0, time.UTC)
	row := BuildRow(domain.LoggedEvent{
		Kind:    domain.KindLink,
		Content: "check https://example.com",
		URL:     "https://example.com",
		Summary: "example link shared",
		Sender:  "+15551234567",
		At:      at,
	})

	want := []any{"2026-08-26", "14:30:05", "Link", "check https://example.com", "https://example.com", "example link shared", "+15551234567"}
	if len(row) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(row))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %d = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestBuildRowTruncatesContent(t *testing.T) {
	long := strings.Repeat("a", 600)
	row := BuildRow(domain.LoggedEvent{Kind: domain.KindMessage, Content: long, At: time.Now()})

	content, ok := row[3].(string)
	if !ok {
		t.Fatalf("content column is %T, want string", row[3])
	}
	if len(content) != domain.MaxContentLen {
		t.Fatalf("expected content truncated to %d, got %d", domain.MaxContentLen, len(content))
	}
}

func TestSinkAppend(t *testing.T) {
	m := &mockAppender{}
	s := NewSink(m, testLogger())

	err := s.Append(context.Background(), domain.LoggedEvent{
		Kind:    domain.KindMessage,
		Content: "hello",
		Summary: "hello",
		Sender:  "+1555",
		At:      time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.rows) != 1 {
		t.Fatalf("expected 1 appended row, got %d", len(m.rows))
	}
}

func TestSinkAppendError(t *testing.T) {
	m := &mockAppender{err: errors.New("quota exceeded")}
	s := NewSink(m, testLogger())

	err := s.Append(context.Background(), domain.LoggedEvent{Kind: domain.KindMessage, At: time.Now()})
	if err == nil {
		t.Fatal("expected error from failing appender")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestSinkNilClientIsNoOp(t *testing.T) {
	s := NewSink(nil, testLogger())
	if err := s.Append(context.Background(), domain.LoggedEvent{Kind: domain.KindMessage, At: time.Now()}); err != nil {
		t.Fatalf("expected nil-client append to be a no-op, got %v", err)
	}
}
