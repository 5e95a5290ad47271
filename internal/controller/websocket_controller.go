package controller

import (
	"strings"

	ws "scitech-bot/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type IWebSocketController interface {
	RegisterRoutes(r fiber.Router)
}

type webSocketController struct {
	hub  *ws.Hub
	chat ws.ChatHandler
}

func NewWebSocketController(hub *ws.Hub, chat ws.ChatHandler) IWebSocketController {
	return &webSocketController{hub: hub, chat: chat}
}

// RegisterRoutes mounts /ws/chat. The session comes from ?session_id= or is
// created on connect and announced in the first frame.
func (c *webSocketController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ws")
	h.Use(func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		sessionID := strings.TrimSpace(ctx.Query("session_id"))
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		if len(sessionID) > 64 {
			return fiber.NewError(fiber.StatusBadRequest, "session_id too long")
		}
		ctx.Locals("session_id", sessionID)
		return ctx.Next()
	})
	h.Get("/chat", websocket.New(func(conn *websocket.Conn) {
		sessionID, _ := conn.Locals("session_id").(string)
		ws.ServeWs(c.hub, c.chat, conn, sessionID)
	}))
}
