package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/consult-api/controllers"
	"github.com/lawbridge/consult-api/middleware"
)

// SetupProfileRoutes configures profile management routes
func SetupProfileRoutes(app *fiber.App) {
	profile := app.Group("/profile", middleware.Protected())
	profile.Patch("/", controllers.UpdateProfile)
	profile.Post("/avatar", controllers.UpdateAvatar)
}
