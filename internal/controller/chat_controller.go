package controller

import (
	"errors"

	"scitech-bot/internal/constant"
	"scitech-bot/internal/dto"
	"scitech-bot/internal/pkg/serverutils"
	"scitech-bot/internal/service"
	"scitech-bot/pkg/events"
	"scitech-bot/pkg/nlp"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
	r.Post("/analisis", c.Analyze)
}

// apology answers transport faults with the fixed reply so chat clients can
// still render something.
func apology(ctx *fiber.Ctx, message string) error {
	res := serverutils.ErrorResponse(fiber.StatusBadRequest, message)
	res.Data = dto.ChatResponse{Respuesta: constant.ApologyMessage}
	return ctx.Status(fiber.StatusBadRequest).JSON(res)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apology(ctx, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return apology(ctx, err.Error())
	}

	res, err := c.chatService.SendChat(ctx.UserContext(), events.ChannelHTTP, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Mensaje procesado", res))
}

func (c *chatController) Analyze(ctx *fiber.Ctx) error {
	var req dto.AnalysisRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apology(ctx, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Analyze(ctx.UserContext(), req.Mensaje)
	if errors.Is(err, nlp.ErrAnalyzerUnavailable) {
		return ctx.Status(fiber.StatusServiceUnavailable).
			JSON(serverutils.ErrorResponse(fiber.StatusServiceUnavailable, constant.AnalyzeUnavailableHint))
	}
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).
			JSON(serverutils.ErrorResponse(fiber.StatusBadGateway, constant.AnalyzeUnavailableHint))
	}

	return ctx.JSON(serverutils.SuccessResponse("Análisis completado", res))
}
