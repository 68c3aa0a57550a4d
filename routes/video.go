package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/consult-api/controllers"
	"github.com/lawbridge/consult-api/middleware"
	"github.com/lawbridge/consult-api/models"
)

// SetupVideoRoutes configures all video session related routes
func SetupVideoRoutes(app *fiber.App) {
	video := app.Group("/video-sessions", middleware.Protected())
	video.Post("/", middleware.RequireRole(models.RoleLawyer), controllers.CreateVideoSession)
	video.Get("/:appointmentId", controllers.GetVideoSession)
	video.Post("/:appointmentId/join", controllers.JoinVideoSession)
	video.Patch("/:id/status", controllers.UpdateVideoSessionStatus)
}
