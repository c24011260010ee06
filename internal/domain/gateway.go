package domain

import "context"

// Gateway sends outbound replies through a messaging provider.
type Gateway interface {
	Send(ctx context.Context, to string, body string) error
	Name() string
}
