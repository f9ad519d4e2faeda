package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rentnest/rentnest/handlers"
	"github.com/rentnest/rentnest/middleware"
)

func ContractRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	contracts := api.Group("/contracts", middleware.Protected())
	contracts.Get("/me", handlers.GetMyContracts)
	contracts.Get("/:contractId", handlers.GetContract)
	contracts.Get("/:contractId/checklist", handlers.GetChecklist)
	contracts.Post("/:contractId/sign", handlers.SignContract)
	contracts.Post("/documents/:documentId/submit", handlers.SubmitDocument)

	ownerContracts := api.Group("/owner/contracts", middleware.Protected(), middleware.OwnerRequired())
	ownerContracts.Post("", handlers.CreateContract)
	ownerContracts.Post("/:contractId/send", handlers.SendContract)
	ownerContracts.Post("/:contractId/activate", handlers.ActivateContract)
	ownerContracts.Post("/:contractId/terminate", handlers.TerminateContract)
	ownerContracts.Post("/documents/:documentId/review", handlers.ReviewDocument)
}
