package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"scitech-bot/internal/constant"
	"scitech-bot/internal/dto"
	"scitech-bot/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoChat struct {
	err     error
	channel string
}

func (e *echoChat) SendChat(_ context.Context, channel string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	e.channel = channel
	if e.err != nil {
		return nil, e.err
	}
	return &dto.ChatResponse{SessionID: req.SessionID, Respuesta: "eco: " + req.Mensaje, Mensajes: 1}, nil
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func newClient(hub *Hub, sessionID string, chat ChatHandler, buffer int) *Client {
	return &Client{Hub: hub, SessionID: sessionID, Chat: chat, Send: make(chan []byte, buffer)}
}

func receive(t *testing.T, c *Client) outboundFrame {
	t.Helper()
	select {
	case raw := <-c.Send:
		var f outboundFrame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame received")
	}
	return outboundFrame{}
}

func TestHub_DeliverOnlyToSession(t *testing.T) {
	hub := startHub(t)

	a1 := newClient(hub, "a", nil, 4)
	a2 := newClient(hub, "a", nil, 4)
	b := newClient(hub, "b", nil, 4)
	for _, c := range []*Client{a1, a2, b} {
		require.True(t, hub.Register(c))
	}
	require.Eventually(t, func() bool { return hub.Connected("a") == 2 && hub.Connected("b") == 1 }, time.Second, 5*time.Millisecond)

	hub.SendToSession("a", []byte(`{"regla":"topic"}`))

	for _, c := range []*Client{a1, a2} {
		f := receive(t, c)
		assert.Equal(t, FrameTurn, f.Type)
		assert.JSONEq(t, `{"regla":"topic"}`, string(f.Data))
	}
	assert.Empty(t, b.Send)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	c := newClient(hub, "a", nil, 1)
	require.True(t, hub.Register(c))

	hub.Unregister(c)

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
	assert.Zero(t, hub.Connected("a"))
}

func TestHub_DropsSlowClients(t *testing.T) {
	hub := startHub(t)
	slow := newClient(hub, "a", nil, 1)
	require.True(t, hub.Register(slow))
	require.Eventually(t, func() bool { return hub.Connected("a") == 1 }, time.Second, 5*time.Millisecond)

	hub.Deliver("a", []byte(`{}`))
	hub.Deliver("a", []byte(`{}`))

	assert.Zero(t, hub.Connected("a"))
}

func TestHub_StopsCleanly(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := newClient(hub, "a", nil, 1)
	require.True(t, hub.Register(c))
	cancel()
	<-stopped

	assert.False(t, hub.Register(newClient(hub, "b", nil, 1)))
	hub.Unregister(c)
}

func TestClient_HandleFrame(t *testing.T) {
	hub := startHub(t)
	chat := &echoChat{}
	sender := newClient(hub, "a", chat, 4)
	tab := newClient(hub, "a", chat, 4)
	require.True(t, hub.Register(sender))
	require.True(t, hub.Register(tab))
	require.Eventually(t, func() bool { return hub.Connected("a") == 2 }, time.Second, 5*time.Millisecond)

	sender.handleFrame(context.Background(), []byte(`{"mensaje":"hola"}`))

	for _, c := range []*Client{sender, tab} {
		f := receive(t, c)
		assert.Equal(t, FrameReply, f.Type)
		var res dto.ChatResponse
		require.NoError(t, json.Unmarshal(f.Data, &res))
		assert.Equal(t, "eco: hola", res.Respuesta)
		assert.Equal(t, "a", res.SessionID)
	}
	assert.Equal(t, "ws", chat.channel)
}

func TestClient_HandleFrameErrors(t *testing.T) {
	hub := startHub(t)

	cases := []struct {
		name    string
		chat    *echoChat
		frame   string
		message string
	}{
		{name: "malformed", chat: &echoChat{}, frame: `{"mensaje":`, message: constant.ApologyMessage},
		{name: "foreign session", chat: &echoChat{}, frame: `{"session_id":"b","mensaje":"hola"}`, message: "session_id does not match this connection"},
		{name: "turn failure", chat: &echoChat{err: errors.New("boom")}, frame: `{"mensaje":"hola"}`, message: constant.GenericErrorMessage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(hub, "a", tc.chat, 2)
			c.handleFrame(context.Background(), []byte(tc.frame))

			f := receive(t, c)
			assert.Equal(t, FrameError, f.Type)
			assert.Equal(t, tc.message, f.Message)
		})
	}
}

func TestClient_HandleFrameAfterHubStopped(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := newClient(hub, "a", &echoChat{err: errors.New("boom")}, 4)
	require.True(t, hub.Register(c))
	cancel()
	<-stopped

	for _, frame := range []string{`not json`, `{"session_id":"b","mensaje":"hola"}`, `{"mensaje":"hola"}`} {
		assert.NotPanics(t, func() { c.handleFrame(context.Background(), []byte(frame)) })
	}
	_, ok := <-c.Send
	assert.False(t, ok)
}

func TestClient_HandleFrameAfterSlowDrop(t *testing.T) {
	hub := startHub(t)
	c := newClient(hub, "a", &echoChat{}, 1)
	require.True(t, hub.Register(c))
	require.Eventually(t, func() bool { return hub.Connected("a") == 1 }, time.Second, 5*time.Millisecond)

	hub.Deliver("a", []byte(`{}`))
	hub.Deliver("a", []byte(`{}`))
	require.Zero(t, hub.Connected("a"))

	assert.NotPanics(t, func() { c.handleFrame(context.Background(), []byte(`{"mensaje":`)) })
	assert.NotPanics(t, func() { c.handleFrame(context.Background(), []byte(`{"mensaje":"hola"}`)) })
	assert.NotPanics(t, func() { hub.Unregister(c) })
}
