package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"msb-booking/internal/pkg/retry"
)

type WebPushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
	TTL             int
	Timeout         time.Duration
	Retry           retry.Policy
}

// WebPushSender serves the browser build of the app. The stored token is
// the PushSubscription JSON the browser hands out.
type WebPushSender struct {
	cfg    WebPushConfig
	client *http.Client
}

func NewWebPushSender(cfg WebPushConfig) *WebPushSender {
	if cfg.TTL <= 0 {
		cfg.TTL = 86400
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &WebPushSender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type webPushPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

func (s *WebPushSender) Send(ctx context.Context, msg Message) (*Ticket, error) {
	if s.cfg.VAPIDPublicKey == "" || s.cfg.VAPIDPrivateKey == "" {
		return nil, ErrNotConfigured
	}

	var sub webpush.Subscription
	if err := json.Unmarshal([]byte(msg.Token), &sub); err != nil || sub.Endpoint == "" {
		return nil, fmt.Errorf("%w: not a push subscription", ErrInvalidToken)
	}

	payload, err := json.Marshal(webPushPayload{Title: msg.Title, Body: msg.Body, Data: msg.Data})
	if err != nil {
		return nil, fmt.Errorf("marshal web push payload: %w", err)
	}

	var ticket *Ticket
	err = s.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		resp, err := webpush.SendNotificationWithContext(ctx, payload, &sub, &webpush.Options{
			HTTPClient:      s.client,
			Subscriber:      s.cfg.Subscriber,
			TTL:             s.cfg.TTL,
			Urgency:         webpush.UrgencyHigh,
			VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
			VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		})
		if err != nil {
			return retry.Retryable(fmt.Errorf("send web push: %w", err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: subscription expired", ErrInvalidToken)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return retry.Retryable(fmt.Errorf("web push failed: %s", resp.Status))
		case resp.StatusCode >= 400:
			return fmt.Errorf("web push failed: %s", resp.Status)
		}

		ticket = &Ticket{ID: resp.Header.Get("Location")}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}
