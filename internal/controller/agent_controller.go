package controller

import (
	"policy-qa-be/internal/dto"
	"policy-qa-be/internal/pkg/serverutils"
	"policy-qa-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	GetRecord(ctx *fiber.Ctx) error
}

type agentController struct {
	agentService service.IAgentService
}

func NewAgentController(agentService service.IAgentService) IAgentController {
	return &agentController{
		agentService: agentService,
	}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/agent/v1")
	h.Post("ask", c.Ask)
	h.Get("history/:session_id", c.GetHistory)
	h.Get("record/:trace_id", c.GetRecord)
}

func (c *agentController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.agentService.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer query", res))
}

func (c *agentController) GetRecord(ctx *fiber.Ctx) error {
	traceID := ctx.Params("trace_id")

	res, err := c.agentService.GetRecord(ctx.Context(), traceID)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.ErrNotFound
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get record", res))
}

func (c *agentController) GetHistory(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")

	res, err := c.agentService.GetHistory(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}
