// Package delivery turns booking activity into device notifications. Remote
// push is tried first; the device gateway is the fallback.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"msb-booking/internal/identity"
	"msb-booking/internal/push"
	"msb-booking/internal/realtime"
)

var (
	ErrNoPushToken        = errors.New("no push token registered")
	ErrBothChannelsFailed = errors.New("remote push and local notification both failed")
)

type Channel string

const (
	ChannelRemote Channel = "remote"
	ChannelLocal  Channel = "local"
)

type SendResult struct {
	Channel  Channel `json:"channel"`
	TicketID string  `json:"ticket_id,omitempty"`
}

type TokenStore interface {
	SetPushToken(ctx context.Context, id uuid.UUID, token string) error
	GetPushToken(ctx context.Context, id uuid.UUID) (string, error)
}

type LocalNotifier interface {
	ScheduleImmediate(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) error
}

type Config struct {
	RemoteTimeout time.Duration
	LocalTimeout  time.Duration
	StoreTimeout  time.Duration
}

type Service interface {
	// Start registers the device token, if any, then subscribes to changes.
	Start(ctx context.Context, pushToken string)
	SetupRealtimeListeners(ctx context.Context)
	SendPushNotification(ctx context.Context, title, body string, data map[string]string) (*SendResult, error)
	Stop(ctx context.Context)
	Close()
}

type service struct {
	tokens TokenStore
	sender push.Sender
	local  LocalNotifier
	events realtime.Subscriber
	cfg    Config
	logger *zap.Logger

	mu     sync.Mutex
	subs   map[uuid.UUID]realtime.Handle
	closed bool
}

func NewService(tokens TokenStore, sender push.Sender, local LocalNotifier, events realtime.Subscriber, cfg Config, logger *zap.Logger) Service {
	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = 10 * time.Second
	}
	if cfg.LocalTimeout <= 0 {
		cfg.LocalTimeout = 5 * time.Second
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 5 * time.Second
	}
	return &service{
		tokens: tokens,
		sender: sender,
		local:  local,
		events: events,
		cfg:    cfg,
		logger: logger,
		subs:   make(map[uuid.UUID]realtime.Handle),
	}
}

func (s *service) Start(ctx context.Context, pushToken string) {
	user, ok := identity.CurrentUser(ctx)
	switch {
	case !ok:
		s.logger.Debug("delivery start without identity, token not saved")
	case pushToken == "":
		s.logger.Debug("no push token supplied", zap.String("user_id", user.ID.String()))
	default:
		storeCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
		err := s.tokens.SetPushToken(storeCtx, user.ID, pushToken)
		cancel()
		if err != nil {
			s.logger.Warn("save push token", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}

	s.SetupRealtimeListeners(ctx)
}

func (s *service) SetupRealtimeListeners(ctx context.Context) {
	user, ok := identity.CurrentUser(ctx)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if old, ok := s.subs[user.ID]; ok {
		old.Unsubscribe()
		delete(s.subs, user.ID)
	}

	owner := user.ID.String()
	s.subs[user.ID] = s.events.Subscribe(s.listener(user),
		realtime.Filter{Table: "notifications", Events: []realtime.EventType{realtime.Insert}, Column: "user_id", Value: owner},
		realtime.Filter{Table: "appointments", Events: []realtime.EventType{realtime.Insert, realtime.Update}, Column: "user_id", Value: owner},
	)
}

func (s *service) listener(user identity.User) realtime.Handler {
	return func(e realtime.Event) {
		msg := ComposeMessage(e)
		if msg.Empty() {
			return
		}

		ctx := identity.WithUser(context.Background(), user)
		if _, err := s.SendPushNotification(ctx, msg.Title, msg.Body, msg.Data); err != nil {
			s.logger.Warn("deliver change notification",
				zap.String("user_id", user.ID.String()),
				zap.String("table", e.Table),
				zap.String("type", string(e.Type)),
				zap.Error(err),
			)
		}
	}
}

func (s *service) SendPushNotification(ctx context.Context, title, body string, data map[string]string) (*SendResult, error) {
	user, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}

	result, remoteErr := s.sendRemote(ctx, user.ID, title, body, data)
	if remoteErr == nil {
		return result, nil
	}
	s.logger.Warn("remote push failed, using local notification",
		zap.String("user_id", user.ID.String()),
		zap.Error(remoteErr),
	)

	localCtx, cancel := context.WithTimeout(ctx, s.cfg.LocalTimeout)
	defer cancel()
	if err := s.local.ScheduleImmediate(localCtx, user.ID, title, body, data); err != nil {
		return nil, errors.Join(ErrBothChannelsFailed, remoteErr, err)
	}
	return &SendResult{Channel: ChannelLocal}, nil
}

func (s *service) sendRemote(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) (*SendResult, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	token, err := s.tokens.GetPushToken(storeCtx, userID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("lookup push token: %w", err)
	}
	if token == "" {
		return nil, ErrNoPushToken
	}

	pushCtx, cancel := context.WithTimeout(ctx, s.cfg.RemoteTimeout)
	defer cancel()

	ticket, err := s.sender.Send(pushCtx, push.Message{Token: token, Title: title, Body: body, Data: data})
	if err != nil {
		return nil, err
	}

	result := &SendResult{Channel: ChannelRemote}
	if ticket != nil {
		result.TicketID = ticket.ID
	}
	return result, nil
}

func (s *service) Stop(ctx context.Context) {
	user, ok := identity.CurrentUser(ctx)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.subs[user.ID]; ok {
		h.Unsubscribe()
		delete(s.subs, user.ID)
	}
}

func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, h := range s.subs {
		h.Unsubscribe()
		delete(s.subs, id)
	}
	s.closed = true
}
