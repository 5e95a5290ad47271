package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"scitech-bot/internal/constant"
	"scitech-bot/internal/dto"
	"scitech-bot/pkg/events"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// Frame types written to the browser
const (
	FrameSession = "session"
	FrameReply   = "reply"
	FrameTurn    = "turn"
	FrameError   = "error"
)

// ChatHandler runs one chat turn
type ChatHandler interface {
	SendChat(ctx context.Context, channel string, request *dto.ChatRequest) (*dto.ChatResponse, error)
}

type inboundFrame struct {
	SessionID string `json:"session_id,omitempty"`
	Mensaje   string `json:"mensaje"`
}

type outboundFrame struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Message   string          `json:"message,omitempty"`
}

func encodeFrame(f outboundFrame) []byte {
	data, _ := json.Marshal(f)
	return data
}

func turnFrame(payload []byte) []byte {
	return encodeFrame(outboundFrame{Type: FrameTurn, Data: payload})
}

func errorFrame(message string) []byte {
	return encodeFrame(outboundFrame{Type: FrameError, Message: message})
}

// Client is a middleman between one websocket connection and the hub. A
// connection is bound to a single chat session for its whole life.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	SessionID string

	Chat ChatHandler

	// Buffered channel of outbound messages. Only trySend writes to it and
	// only close closes it.
	Send chan []byte

	mu     sync.Mutex
	closed bool
}

// trySend queues frame without blocking. It reports false when the buffer is
// full or the client was already closed by the hub.
func (c *Client) trySend(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- frame:
		return true
	default:
		return false
	}
}

// close shuts Send once; later calls and sends are no-ops
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// handleFrame runs one inbound frame through the chat handler. Replies are
// delivered through the hub so every tab of the session sees them; problems
// with the frame itself only go back to the sender.
func (c *Client) handleFrame(ctx context.Context, raw []byte) {
	var in inboundFrame
	if err := json.Unmarshal(raw, &in); err != nil {
		c.reply(errorFrame(constant.ApologyMessage))
		return
	}
	if id := strings.TrimSpace(in.SessionID); id != "" && id != c.SessionID {
		c.reply(errorFrame("session_id does not match this connection"))
		return
	}

	res, err := c.Chat.SendChat(ctx, events.ChannelWebsocket, &dto.ChatRequest{
		SessionID: c.SessionID,
		Mensaje:   in.Mensaje,
	})
	if err != nil {
		c.Hub.logger.Error("Client", "Chat turn failed", map[string]interface{}{
			"session_id": c.SessionID,
			"error":      err.Error(),
		})
		c.reply(errorFrame(constant.GenericErrorMessage))
		return
	}

	data, _ := json.Marshal(res)
	c.Hub.Deliver(c.SessionID, encodeFrame(outboundFrame{Type: FrameReply, SessionID: c.SessionID, Data: data}))
}

func (c *Client) reply(frame []byte) {
	c.trySend(frame)
}

// readPump pumps messages from the websocket connection to the chat handler.
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			return
		}
		c.handleFrame(context.Background(), raw)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One frame per JSON document, browsers parse them individually
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Hub.logger.Debug("Client", "Ping failed", map[string]interface{}{"session_id": c.SessionID})
				return
			}
		}
	}
}
