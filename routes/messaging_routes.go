package routes

import (
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rentnest/rentnest/handlers"
	"github.com/rentnest/rentnest/middleware"
)

func MessagingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	messaging := api.Group("/conversations", middleware.Protected())
	messaging.Get("", handlers.GetUserConversations)
	messaging.Post("", handlers.CreateOrGetConversation)
	messaging.Get("/:conversationId/messages", handlers.GetConversationMessages)
	messaging.Post("/:conversationId/messages", handlers.SendMessage)
	messaging.Post("/:conversationId/read", handlers.MarkMessagesRead)

	app.Get("/ws", websocketcontrib.New(handlers.ServeWs))
}
