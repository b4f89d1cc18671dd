package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"msb-booking/internal/pkg/retry"
)

const DefaultExpoEndpoint = "https://exp.host/--/api/v2/push/send"

type ExpoConfig struct {
	Endpoint    string
	AccessToken string
	ChannelID   string
	Timeout     time.Duration
	Retry       retry.Policy
}

// ExpoSender posts to the Expo push API.
type ExpoSender struct {
	cfg    ExpoConfig
	client *http.Client
}

func NewExpoSender(cfg ExpoConfig) *ExpoSender {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultExpoEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &ExpoSender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type expoRequest struct {
	To        string            `json:"to"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	Sound     string            `json:"sound"`
	Priority  string            `json:"priority"`
	ChannelID string            `json:"channelId,omitempty"`
}

type expoResponse struct {
	Data struct {
		Status  string `json:"status"`
		ID      string `json:"id"`
		Message string `json:"message"`
		Details struct {
			Error string `json:"error"`
		} `json:"details"`
	} `json:"data"`
}

func (s *ExpoSender) Send(ctx context.Context, msg Message) (*Ticket, error) {
	if s.cfg.AccessToken == "" {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(expoRequest{
		To:        msg.Token,
		Title:     msg.Title,
		Body:      msg.Body,
		Data:      msg.Data,
		Sound:     "default",
		Priority:  "high",
		ChannelID: s.cfg.ChannelID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal expo payload: %w", err)
	}

	var ticket *Ticket
	err = s.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		t, err := s.post(ctx, payload)
		if err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *ExpoSender) post(ctx context.Context, payload []byte) (*Ticket, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build expo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.AccessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, retry.Retryable(fmt.Errorf("expo request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return nil, retry.Retryable(fmt.Errorf("read expo response: %w", err))
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, retry.Retryable(fmt.Errorf("expo push failed: %s", resp.Status))
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("expo push failed: %s: %s", resp.Status, bytes.TrimSpace(body))
	}

	var out expoResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode expo response: %w", err)
	}
	if out.Data.Status != "ok" {
		if out.Data.Details.Error == "DeviceNotRegistered" {
			return nil, fmt.Errorf("%w: %s", ErrInvalidToken, out.Data.Message)
		}
		return nil, fmt.Errorf("expo push rejected: %s", out.Data.Message)
	}
	return &Ticket{ID: out.Data.ID}, nil
}
