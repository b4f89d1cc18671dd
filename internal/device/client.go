package device

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
	"github.com/google/uuid"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
)

// Client is one websocket connection belonging to a customer.
type Client struct {
	gateway *Gateway
	conn    *ws.Conn
	userID  uuid.UUID
	send    chan []byte
}

func NewClient(g *Gateway, conn *ws.Conn, userID uuid.UUID) *Client {
	return &Client{
		gateway: g,
		conn:    conn,
		userID:  userID,
		send:    make(chan []byte, sendBufferSize),
	}
}

// Run blocks until the connection closes.
func (c *Client) Run(ctx context.Context) {
	c.gateway.Register(c)
	defer c.gateway.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump(ctx)
	c.readPump(ctx)
}

// The app never sends anything meaningful; reads only detect close.
func (c *Client) readPump(ctx context.Context) {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
