package controller

import (
	"ai-lifeos-be/internal/dto"
	"ai-lifeos-be/internal/pkg/serverutils"
	"ai-lifeos-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICaptureController interface {
	RegisterRoutes(r fiber.Router)
	Screen(ctx *fiber.Ctx) error
	Audio(ctx *fiber.Ctx) error
	AnalyzeNow(ctx *fiber.Ctx) error
}

type captureController struct {
	analysisService service.IAnalysisService
}

func NewCaptureController(analysisService service.IAnalysisService) ICaptureController {
	return &captureController{
		analysisService: analysisService,
	}
}

func (c *captureController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/capture/v1")
	h.Post("screen", c.Screen)
	h.Post("audio", c.Audio)
	h.Post("analyze-now", c.AnalyzeNow)
}

func (c *captureController) Screen(ctx *fiber.Ctx) error {
	var req dto.CaptureScreenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.analysisService.EnqueueScreen(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Screen capture queued", res))
}

func (c *captureController) Audio(ctx *fiber.Ctx) error {
	var req dto.CaptureAudioRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.analysisService.EnqueueAudio(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Audio capture queued", res))
}

func (c *captureController) AnalyzeNow(ctx *fiber.Ctx) error {
	var req dto.CaptureScreenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.analysisService.AnalyzeNow(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Capture analyzed", res))
}
