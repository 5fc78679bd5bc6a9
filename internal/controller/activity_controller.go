package controller

import (
	"ai-lifeos-be/internal/pkg/serverutils"
	"ai-lifeos-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IActivityController interface {
	RegisterRoutes(r fiber.Router)
	Recent(ctx *fiber.Ctx) error
	Alerts(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type activityController struct {
	activityService service.IActivityService
}

func NewActivityController(activityService service.IActivityService) IActivityController {
	return &activityController{
		activityService: activityService,
	}
}

func (c *activityController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/activity/v1")
	h.Get("recent", c.Recent)
	h.Get("alerts", c.Alerts)
	h.Get("stats", c.Stats)
}

func (c *activityController) Recent(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	res, err := c.activityService.ListRecent(ctx.Context(), limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Recent activities", res))
}

func (c *activityController) Alerts(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	res, err := c.activityService.ListAlerts(ctx.Context(), limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Recent alerts", res))
}

func (c *activityController) Stats(ctx *fiber.Ctx) error {
	res, err := c.activityService.Stats(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System stats", res))
}
