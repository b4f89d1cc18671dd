// Package push delivers remote notifications to a customer's device token.
package push

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured = errors.New("push provider not configured")
	ErrInvalidToken  = errors.New("push token rejected by provider")
)

type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Ticket is the provider's receipt for an accepted message.
type Ticket struct {
	ID string
}

// Sender is atomic-or-failed: a nil error means the provider accepted the message.
type Sender interface {
	Send(ctx context.Context, msg Message) (*Ticket, error)
}

// Disabled is used when no provider is configured. Every send fails so
// callers fall through to the local device channel.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) (*Ticket, error) {
	return nil, ErrNotConfigured
}
