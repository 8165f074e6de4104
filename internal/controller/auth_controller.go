package controller

import (
	"errors"
	"time"

	"wikivoice-be/internal/dto"
	"wikivoice-be/internal/pkg/serverutils"
	"wikivoice-be/internal/service"
	"wikivoice-be/pkg/auth/stytch"

	"github.com/gofiber/fiber/v2"
)

const sessionCookieMaxAge = 7 * 24 * time.Hour

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	CheckUser(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	isProd  bool
}

func NewAuthController(service service.IAuthService, isProd bool) IAuthController {
	return &authController{service: service, isProd: isProd}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/check-user", c.CheckUser)
	h.Post("/login", c.Login)
	h.Post("/logout", c.Logout)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, session, err := c.service.Register(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}

	c.setSessionCookies(ctx, session)
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("User registered successfully", res))
}

func (c *authController) CheckUser(ctx *fiber.Ctx) error {
	var req dto.CheckUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CheckUser(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success check user", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, session, err := c.service.Login(ctx.Context(), &req)
	if err != nil {
		code := fiber.StatusInternalServerError
		if errors.Is(err, stytch.ErrInvalidCredentials) {
			code = fiber.StatusUnauthorized
		}
		return ctx.Status(code).JSON(fiber.Map{
			"success": false,
			"code":    code,
			"message": "Invalid email or password",
		})
	}

	c.setSessionCookies(ctx, session)
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	sessionJWT := ctx.Cookies(serverutils.SessionCookieName)
	_ = c.service.Logout(ctx.Context(), sessionJWT)

	c.clearSessionCookies(ctx)
	return ctx.JSON(serverutils.SuccessResponse("Logged out successfully", fiber.Map{}))
}

func (c *authController) setSessionCookies(ctx *fiber.Ctx, session *stytch.SessionData) {
	if session == nil {
		return
	}
	expires := time.Now().Add(sessionCookieMaxAge)

	ctx.Cookie(&fiber.Cookie{
		Name:     serverutils.SessionCookieName,
		Value:    session.SessionJWT,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   c.isProd,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	ctx.Cookie(&fiber.Cookie{
		Name:     "session_token",
		Value:    session.SessionToken,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   c.isProd,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	// Frontend reads this one, so it stays accessible to scripts.
	ctx.Cookie(&fiber.Cookie{
		Name:     "stytch_user_id",
		Value:    session.StytchUserID,
		Expires:  expires,
		HTTPOnly: false,
		Secure:   c.isProd,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func (c *authController) clearSessionCookies(ctx *fiber.Ctx) {
	for _, name := range []string{serverutils.SessionCookieName, "session_token", "stytch_user_id"} {
		ctx.Cookie(&fiber.Cookie{
			Name:    name,
			Value:   "",
			Expires: time.Now().Add(-time.Hour),
			Path:    "/",
		})
	}
}
