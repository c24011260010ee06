package domain

import (
	"strings"
	"testing"
)

func TestTruncateContent(t *testing.T) {
	short := "hello"
	if got := TruncateContent(short); got != short {
		t.Fatalf("short content modified: %q", got)
	}

	long := strings.Repeat("a", MaxContentLen+100)
	got := TruncateContent(long)
	if len(got) != MaxContentLen {
		t.Fatalf("expected %d chars, got %d", MaxContentLen, len(got))
	}

	// Multi-byte content is cut on rune boundaries.
	emoji := strings.Repeat("✅", MaxContentLen+10)
	got = TruncateContent(emoji)
	if runes := []rune(got); len(runes) != MaxContentLen {
		t.Fatalf("expected %d runes, got %d", MaxContentLen, len(runes))
	}
	if !strings.HasSuffix(got, "✅") {
		t.Fatal("truncation split a rune")
	}
}
