package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type IHealthController interface {
	RegisterRoutes(app *fiber.App)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) IHealthController {
	return &healthController{db: db}
}

func (c *healthController) RegisterRoutes(app *fiber.App) {
	app.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	dbStatus := "ok"
	sqlDB, err := c.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		dbStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "ok"
	if dbStatus != "ok" {
		status = fiber.StatusServiceUnavailable
		overall = "unavailable"
	}

	return ctx.Status(status).JSON(fiber.Map{
		"status":   overall,
		"database": dbStatus,
	})
}
