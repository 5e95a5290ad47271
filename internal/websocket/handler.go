package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs binds the connection to sessionID, announces it to the peer and
// pumps frames until the connection closes.
func ServeWs(hub *Hub, chat ChatHandler, c *websocket.Conn, sessionID string) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, Chat: chat, Send: make(chan []byte, 256)}
	client.trySend(encodeFrame(outboundFrame{Type: FrameSession, SessionID: sessionID}))

	if !hub.Register(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
