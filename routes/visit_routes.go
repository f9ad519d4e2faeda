package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rentnest/rentnest/handlers"
	"github.com/rentnest/rentnest/middleware"
)

func VisitRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	visits := api.Group("/visits", middleware.Protected())
	visits.Post("", handlers.RequestVisit)
	visits.Get("/me", handlers.GetMyVisits)
	visits.Post("/:visitId/cancel", handlers.CancelVisit)

	ownerVisits := api.Group("/owner/visits", middleware.Protected(), middleware.OwnerRequired())
	ownerVisits.Get("", handlers.GetOwnerVisits)
	ownerVisits.Get("/stats", handlers.GetOwnerVisitStats)
	ownerVisits.Post("/:visitId/confirm", handlers.ConfirmVisit)
	ownerVisits.Post("/:visitId/complete", handlers.CompleteVisit)
}
