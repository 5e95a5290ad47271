package controller

import (
	"errors"
	"strings"

	"scitech-bot/internal/config"
	"scitech-bot/internal/dto"
	"scitech-bot/internal/pkg/logger"
	"scitech-bot/internal/pkg/serverutils"
	"scitech-bot/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ISystemController serves health, configuration, statistics and, in debug
// mode, the application log.
type ISystemController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	Config(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
	LogDetail(ctx *fiber.Ctx) error
}

type systemController struct {
	cfg          *config.Config
	chatService  service.IChatService
	statsService service.IStatsService
	logger       logger.ILogger
}

func NewSystemController(cfg *config.Config, chatService service.IChatService, statsService service.IStatsService, log logger.ILogger) ISystemController {
	return &systemController{
		cfg:          cfg,
		chatService:  chatService,
		statsService: statsService,
		logger:       log,
	}
}

func (c *systemController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
	r.Get("/config", c.Config)
	r.Get("/stats", c.Stats)

	if c.cfg.App.Debug {
		r.Get("/logs", c.Logs)
		r.Get("/logs/:id", c.LogDetail)
	}
}

func (c *systemController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Healthy", c.chatService.Health(ctx.UserContext())))
}

func (c *systemController) Config(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Configuration", c.cfg.Summary()))
}

func (c *systemController) Stats(ctx *fiber.Ctx) error {
	res, err := c.statsService.GetStats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Statistics", res))
}

func (c *systemController) Logs(ctx *fiber.Ctx) error {
	query := dto.LogsQuery{Limit: 50}
	if err := ctx.QueryParser(&query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	entries, err := c.logger.GetLogs(strings.ToUpper(query.Level), query.Limit, query.Offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Logs", entries))
}

func (c *systemController) LogDetail(ctx *fiber.Ctx) error {
	entry, err := c.logger.GetLogById(ctx.Params("id"))
	if errors.Is(err, logger.ErrLogNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Log not found"))
	}
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Log", entry))
}
