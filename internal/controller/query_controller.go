package controller

import (
	"wikivoice-be/internal/dto"
	"wikivoice-be/internal/pkg/serverutils"
	"wikivoice-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	Submit(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type queryController struct {
	queryService service.IQueryService
}

func NewQueryController(queryService service.IQueryService) IQueryController {
	return &queryController{
		queryService: queryService,
	}
}

func (c *queryController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/query")
	h.Use(authMiddleware)
	h.Post("", c.Submit)
	h.Get("/history/:session_id", c.History)
}

func (c *queryController) Submit(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.QueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if err := req.Sanitize(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.queryService.ProcessQuery(ctx.Context(), userId, &req)
	if err != nil {
		return sessionError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Query processed successfully", res))
}

func (c *queryController) History(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.queryService.GetConversationHistory(ctx.Context(), userId, sessionId)
	if err != nil {
		return sessionError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("History retrieved successfully", res))
}
