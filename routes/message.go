package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/consult-api/controllers"
	"github.com/lawbridge/consult-api/middleware"
)

// SetupMessageRoutes configures all messaging related routes
func SetupMessageRoutes(app *fiber.App) {
	message := app.Group("/messages", middleware.Protected())
	message.Get("/contacts", controllers.GetContacts)
	message.Get("/conversation/:contactId", controllers.GetConversation)
	message.Get("/stream/:contactId", controllers.StreamConversation)
	message.Post("/", controllers.SendMessage)
}
