// Package device keeps a websocket open to each signed-in app instance.
// It carries the local-notification fallback and the inbox badge count.
package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNoDevice = errors.New("no connected device")

const (
	TypeNotification = "notification"
	TypeUnreadCount  = "unread_count"
)

// Message is the envelope written to the app.
type Message struct {
	Type  string            `json:"type"`
	Title string            `json:"title,omitempty"`
	Body  string            `json:"body,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
	Count *int64            `json:"count,omitempty"`
}

// Gateway tracks connected clients per customer.
type Gateway struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
	logger  *zap.Logger
}

func NewGateway(logger *zap.Logger) *Gateway {
	return &Gateway{
		clients: make(map[uuid.UUID]map[*Client]struct{}),
		logger:  logger,
	}
}

func (g *Gateway) Register(c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	set, ok := g.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		g.clients[c.userID] = set
	}
	set[c] = struct{}{}
}

// Unregister removes the client and closes its send channel. Safe to repeat.
func (g *Gateway) Unregister(c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	set, ok := g.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(g.clients, c.userID)
	}
}

func (g *Gateway) ClientCount(userID uuid.UUID) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.clients[userID])
}

// ScheduleImmediate shows a notification on every connected device of the
// customer. It fails when none is connected or none accepted the message.
func (g *Gateway) ScheduleImmediate(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	delivered, err := g.send(userID, Message{Type: TypeNotification, Title: title, Body: body, Data: data})
	if err != nil {
		return err
	}
	if delivered == 0 {
		return ErrNoDevice
	}
	return nil
}

// PublishUnreadCount updates the inbox badge on connected devices. Nothing
// happens when the customer is offline.
func (g *Gateway) PublishUnreadCount(userID uuid.UUID, count int64) {
	if _, err := g.send(userID, Message{Type: TypeUnreadCount, Count: &count}); err != nil {
		g.logger.Warn("publish unread count", zap.Error(err))
	}
}

func (g *Gateway) send(userID uuid.UUID, msg Message) (int, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("marshal device message: %w", err)
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	delivered := 0
	for c := range g.clients[userID] {
		select {
		case c.send <- data:
			delivered++
		default:
			g.logger.Warn("device buffer full, message dropped", zap.String("user_id", userID.String()))
		}
	}
	return delivered, nil
}
