package device

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mockClient(g *Gateway, userID uuid.UUID) *Client {
	return &Client{gateway: g, userID: userID, send: make(chan []byte, sendBufferSize)}
}

func TestScheduleImmediateWithoutDevice(t *testing.T) {
	g := NewGateway(zap.NewNop())
	err := g.ScheduleImmediate(context.Background(), uuid.New(), "t", "b", nil)
	assert.ErrorIs(t, err, ErrNoDevice)
}

func TestScheduleImmediateDeliversToOwnDevicesOnly(t *testing.T) {
	g := NewGateway(zap.NewNop())
	me, other := uuid.New(), uuid.New()
	mine := mockClient(g, me)
	theirs := mockClient(g, other)
	g.Register(mine)
	g.Register(theirs)

	err := g.ScheduleImmediate(context.Background(), me, "Appointment Booked", "See you", map[string]string{"k": "v"})
	require.NoError(t, err)

	require.Len(t, mine.send, 1)
	assert.Len(t, theirs.send, 0)

	var msg Message
	require.NoError(t, json.Unmarshal(<-mine.send, &msg))
	assert.Equal(t, TypeNotification, msg.Type)
	assert.Equal(t, "Appointment Booked", msg.Title)
	assert.Equal(t, "v", msg.Data["k"])
}

func TestUnregisterTwice(t *testing.T) {
	g := NewGateway(zap.NewNop())
	id := uuid.New()
	c := mockClient(g, id)
	g.Register(c)
	assert.Equal(t, 1, g.ClientCount(id))

	g.Unregister(c)
	g.Unregister(c)
	assert.Equal(t, 0, g.ClientCount(id))
}

func TestPublishUnreadCount(t *testing.T) {
	g := NewGateway(zap.NewNop())
	id := uuid.New()
	c := mockClient(g, id)
	g.Register(c)

	g.PublishUnreadCount(id, 4)

	var msg Message
	require.NoError(t, json.Unmarshal(<-c.send, &msg))
	assert.Equal(t, TypeUnreadCount, msg.Type)
	require.NotNil(t, msg.Count)
	assert.EqualValues(t, 4, *msg.Count)
}

func TestHandlerRejectsBadToken(t *testing.T) {
	g := NewGateway(zap.NewNop())
	srv := httptest.NewServer(g.Handler(func(string) (uuid.UUID, error) {
		return uuid.Nil, errors.New("bad token")
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?token=nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandlerDeliversOverWebsocket(t *testing.T) {
	g := NewGateway(zap.NewNop())
	id := uuid.New()
	srv := httptest.NewServer(g.Handler(func(token string) (uuid.UUID, error) {
		return id, nil
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"?token=ok", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	require.Eventually(t, func() bool { return g.ClientCount(id) == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, g.ScheduleImmediate(ctx, id, "Appointment Cancelled", "Done", nil))

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "Appointment Cancelled", msg.Title)
}
