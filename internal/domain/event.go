package domain

import (
	"context"
	"time"
)

// EventKind classifies a logged event.
type EventKind string

const (
	KindMessage EventKind = "Message"
	KindLink    EventKind = "Link"
)

// MaxContentLen caps the content column of a logged row.
const MaxContentLen = 500

// LoggedEvent is one immutable row appended to the spreadsheet. Rows are
// never updated or deleted by this system.
type LoggedEvent struct {
	Kind    EventKind
	Content string
	URL     string // empty for Message events
	Summary string
	Sender  string
	At      time.Time
}

// EventSink appends logged events to the persistent backing store.
// Implementations must be best-effort: a failed append is reported as an
// error but must never panic or block beyond its transport timeout.
type EventSink interface {
	Append(ctx context.Context, evt LoggedEvent) error
}

// TruncateContent clamps s to MaxContentLen runes.
func TruncateContent(s string) string {
	r := []rune(s)
	if len(r) <= MaxContentLen {
		return s
	}
	return string(r[:MaxContentLen])
}
