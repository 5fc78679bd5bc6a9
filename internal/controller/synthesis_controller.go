package controller

import (
	"ai-lifeos-be/internal/dto"
	"ai-lifeos-be/internal/pkg/serverutils"
	"ai-lifeos-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISynthesisController interface {
	RegisterRoutes(r fiber.Router)
	Connections(ctx *fiber.Ctx) error
	Daily(ctx *fiber.Ctx) error
	Patterns(ctx *fiber.Ctx) error
	RelatedWork(ctx *fiber.Ctx) error
}

type synthesisController struct {
	synthesisService service.ISynthesisService
}

func NewSynthesisController(synthesisService service.ISynthesisService) ISynthesisController {
	return &synthesisController{
		synthesisService: synthesisService,
	}
}

func (c *synthesisController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/synthesis/v1")
	h.Get("connections", c.Connections)
	h.Get("daily", c.Daily)
	h.Get("patterns", c.Patterns)
	h.Post("related-work", c.RelatedWork)
}

func (c *synthesisController) Connections(ctx *fiber.Ctx) error {
	topic := ctx.Query("topic")
	days := ctx.QueryInt("days", 0)
	res, err := c.synthesisService.FindConnections(ctx.Context(), topic, days)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Connections", res))
}

func (c *synthesisController) Daily(ctx *fiber.Ctx) error {
	res, err := c.synthesisService.DailyInsights(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Daily insights", res))
}

func (c *synthesisController) Patterns(ctx *fiber.Ctx) error {
	res, err := c.synthesisService.DetectPatterns(ctx.Context(), ctx.QueryInt("days", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Usage patterns", res))
}

func (c *synthesisController) RelatedWork(ctx *fiber.Ctx) error {
	var req dto.RelatedWorkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.synthesisService.FindRelatedWork(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Related work", res))
}
