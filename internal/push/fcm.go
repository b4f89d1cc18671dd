package push

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"

	"msb-booking/internal/pkg/retry"
)

type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender delivers through Firebase Cloud Messaging.
type FCMSender struct {
	client  messagingClient
	timeout time.Duration
	retry   retry.Policy
}

func NewFCMSender(client messagingClient, timeout time.Duration, policy retry.Policy) *FCMSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FCMSender{client: client, timeout: timeout, retry: policy}
}

func (s *FCMSender) Send(ctx context.Context, msg Message) (*Ticket, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}

	message := &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	var id string
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		res, err := s.client.Send(ctx, message)
		if err != nil {
			if messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err) {
				return fmt.Errorf("%w: %v", ErrInvalidToken, err)
			}
			return retry.Retryable(fmt.Errorf("fcm send: %w", err))
		}
		id = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Ticket{ID: id}, nil
}
