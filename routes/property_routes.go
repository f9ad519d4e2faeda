package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rentnest/rentnest/handlers"
	"github.com/rentnest/rentnest/middleware"
)

func PropertyRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/properties", handlers.SearchProperties)
	api.Get("/properties/:propertyId", handlers.GetProperty)
	api.Get("/properties/:propertyId/schedule", handlers.GetWeeklySchedule)
	api.Get("/properties/:propertyId/visit-slots", handlers.GetVisitSlots)

	owner := api.Group("/owner", middleware.Protected(), middleware.OwnerRequired())
	owner.Post("/properties", handlers.CreateProperty)
	owner.Get("/properties", handlers.GetMyProperties)
	owner.Put("/properties/:propertyId", handlers.UpdateProperty)
	owner.Delete("/properties/:propertyId", handlers.DeleteProperty)

	owner.Put("/properties/:propertyId/schedule", handlers.ReplaceWeeklySchedule)
	owner.Post("/properties/:propertyId/overrides", handlers.CreateDateOverride)
	owner.Get("/properties/:propertyId/overrides", handlers.ListDateOverrides)
	owner.Delete("/overrides/:overrideId", handlers.DeleteDateOverride)
}
