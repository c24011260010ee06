package domain

import "time"

// InboundMessage is one message delivered by a transport channel. It is
// created per webhook call and discarded after processing.
type InboundMessage struct {
	Channel    string
	SenderID   string
	Body       string
	ReceivedAt time.Time
}
