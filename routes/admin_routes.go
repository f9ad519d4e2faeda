package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rentnest/rentnest/handlers"
	"github.com/rentnest/rentnest/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/stats", handlers.GetPlatformStats)
	admin.Get("/users", handlers.GetAllUsers)
	admin.Post("/users/:userId/toggle-status", handlers.ToggleUserStatus)
}
