// Package realtime fans Postgres row-change notifications out to in-process
// subscribers. Rows are published by the notify_row_change trigger on the
// row_changes channel.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"msb-booking/internal/pkg/retry"
)

const (
	DefaultChannel = "row_changes"

	subscriptionBuffer = 64
	pingInterval       = 90 * time.Second
)

type EventType string

const (
	Insert EventType = "INSERT"
	Update EventType = "UPDATE"
	Delete EventType = "DELETE"
)

// Event is one row change. New is empty for deletes, Old is empty for inserts.
type Event struct {
	Table string          `json:"table"`
	Type  EventType       `json:"type"`
	New   json.RawMessage `json:"record"`
	Old   json.RawMessage `json:"old_record"`
}

// Decode unmarshals the new row into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.New, v)
}

// DecodeOld unmarshals the previous row into v.
func (e Event) DecodeOld(v any) error {
	return json.Unmarshal(e.Old, v)
}

// Filter selects events on Table whose row has Column equal to Value.
// An empty Column matches every row; empty Events matches every type.
type Filter struct {
	Table  string
	Events []EventType
	Column string
	Value  string
}

func (f Filter) Matches(e Event) bool {
	if f.Table != e.Table {
		return false
	}
	if len(f.Events) > 0 {
		found := false
		for _, t := range f.Events {
			if t == e.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Column == "" {
		return true
	}

	row := e.New
	if len(row) == 0 || string(row) == "null" {
		row = e.Old
	}
	var fields map[string]any
	if err := json.Unmarshal(row, &fields); err != nil {
		return false
	}
	v, ok := fields[f.Column]
	if !ok || v == nil {
		return false
	}
	return fmt.Sprint(v) == f.Value
}

type Handler func(Event)

// Handle is a live subscription.
type Handle interface {
	Unsubscribe()
}

type Subscriber interface {
	Subscribe(handler Handler, filters ...Filter) Handle
}

type subscription struct {
	hub     *Hub
	filters []Filter
	events  chan Event
	done    chan struct{}
	once    sync.Once
}

func (s *subscription) matches(e Event) bool {
	for _, f := range s.filters {
		if f.Matches(e) {
			return true
		}
	}
	return false
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.done)
	})
}

func (s *subscription) run(handler Handler) {
	for {
		select {
		case e := <-s.events:
			handler(e)
		case <-s.done:
			return
		}
	}
}

// Hub delivers each event to every subscription with a matching filter.
// Delivery order is preserved per subscription.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscription]struct{}
	logger *zap.Logger

	listen func(ctx context.Context, dsn, channel string) error
}

func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		subs:   make(map[*subscription]struct{}),
		logger: logger,
	}
	h.listen = h.Listen
	return h
}

func (h *Hub) Subscribe(handler Handler, filters ...Filter) Handle {
	s := &subscription{
		hub:     h,
		filters: filters,
		events:  make(chan Event, subscriptionBuffer),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	go s.run(handler)
	return s
}

func (h *Hub) remove(s *subscription) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}

func (h *Hub) SubscriptionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) Dispatch(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs {
		if !s.matches(e) {
			continue
		}
		select {
		case s.events <- e:
		default:
			h.logger.Warn("realtime subscriber lagging, event dropped",
				zap.String("table", e.Table),
				zap.String("type", string(e.Type)),
			)
		}
	}
}

// Listen relays notifications from channel until ctx is cancelled.
var errListenerExited = errors.New("realtime listener exited")

// Run keeps a listener up until ctx is done, restarting it with backoff
// whenever Listen gives up.
func (h *Hub) Run(ctx context.Context, dsn, channel string, policy retry.Policy) {
	err := policy.Forever(ctx, func(ctx context.Context) error {
		err := h.listen(ctx, dsn, channel)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = errListenerExited
		}
		h.logger.Warn("realtime listener failed, restarting", zap.Error(err))
		return retry.Retryable(err)
	})
	if err != nil && ctx.Err() == nil {
		h.logger.Error("realtime listener stopped", zap.Error(err))
	}
}

func (h *Hub) Listen(ctx context.Context, dsn, channel string) error {
	listener := pq.NewListener(dsn, time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			h.logger.Warn("realtime listener event", zap.Int("event", int(ev)), zap.Error(err))
		}
	})
	defer listener.Close()

	if err := listener.Listen(channel); err != nil {
		return fmt.Errorf("listen %s: %w", channel, err)
	}
	h.logger.Info("realtime listener started", zap.String("channel", channel))

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// nil after a reconnect; anything missed meanwhile is gone
			if n == nil {
				continue
			}
			var e Event
			if err := json.Unmarshal([]byte(n.Extra), &e); err != nil {
				h.logger.Warn("realtime payload rejected", zap.Error(err))
				continue
			}
			h.Dispatch(e)
		case <-ticker.C:
			if err := listener.Ping(); err != nil {
				h.logger.Warn("realtime listener ping failed", zap.Error(err))
			}
		}
	}
}
