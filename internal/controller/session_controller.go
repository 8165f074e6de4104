package controller

import (
	"errors"

	"wikivoice-be/internal/dto"
	"wikivoice-be/internal/pkg/serverutils"
	"wikivoice-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	UpdateTitle(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/sessions")
	h.Use(authMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id", c.UpdateTitle)
	h.Delete(":id", c.Delete)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	// Title is optional, an empty body is fine.
	var req dto.CreateSessionRequest
	_ = ctx.BodyParser(&req)
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.CreateSession(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	limit := ctx.QueryInt("limit", 10)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.sessionService.GetUserSessions(ctx.Context(), userId, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.sessionService.GetSession(ctx.Context(), userId, id)
	if err != nil {
		return sessionError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) UpdateTitle(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	var req dto.UpdateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.UpdateSessionTitle(ctx.Context(), userId, &req)
	if err != nil {
		return sessionError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Session updated", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	if err := c.sessionService.DeleteSession(ctx.Context(), userId, id); err != nil {
		return sessionError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

// sessionError keeps a missing session and a foreign session identical
// to the caller.
func sessionError(ctx *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrSessionNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"code":    404,
			"message": "Session not found or access denied",
		})
	}
	return err
}
