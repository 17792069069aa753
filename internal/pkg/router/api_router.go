package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/thangnm/rentacc/app/controllers"
	"github.com/thangnm/rentacc/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "rentacc api",
		})
	})

	v1 := api.Group("/v1", middleware.APIKeyAuthMiddleware())

	v1.Get("/stats", controllers.HandleStats)

	rentals := v1.Group("/rentals")
	rentals.Post("/", controllers.HandleCreateRental)
	rentals.Get("/", controllers.HandleListRentals)
	rentals.Post("/check-expired", controllers.HandleCheckExpired)
	rentals.Get("/sweep-status", controllers.HandleSweepStatus)
	rentals.Get("/:id", controllers.HandleGetRental)
	rentals.Patch("/:id", controllers.HandleUpdateRental)
	rentals.Post("/:id/renew", controllers.HandleRenewRental)
	rentals.Delete("/:id", controllers.HandleRemoveRental)
	rentals.Delete("/:id/hard", controllers.HandleHardRemoveRental)
	rentals.Patch("/:id/restore", controllers.HandleRestoreRental)

	users := v1.Group("/users", middleware.RequireAdmin)
	users.Post("/", controllers.HandleCreateUser)
	users.Post("/:id/api-key", controllers.HandleIssueUserAPIKey)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
