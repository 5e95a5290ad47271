package controller

import (
	"errors"

	"scitech-bot/internal/pkg/serverutils"
	"scitech-bot/internal/repository/contract"
	"scitech-bot/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type sessionController struct {
	chatService service.IChatService
}

func NewSessionController(chatService service.IChatService) ISessionController {
	return &sessionController{chatService: chatService}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetSession(ctx.UserContext(), ctx.Params("id"))
	if errors.Is(err, contract.ErrSessionNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Session not found"))
	}
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	err := c.chatService.ResetSession(ctx.UserContext(), ctx.Params("id"))
	if errors.Is(err, contract.ErrSessionNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Session not found"))
	}
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session deleted", nil))
}
