package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/consult-api/controllers/client"
	"github.com/lawbridge/consult-api/controllers/lawyer"
	"github.com/lawbridge/consult-api/middleware"
	"github.com/lawbridge/consult-api/models"
)

// SetupLawyerRoutes configures the public lawyer directory and the
// lawyer-only availability management routes.
func SetupLawyerRoutes(app *fiber.App) {
	lawyers := app.Group("/lawyers")
	lawyers.Get("/", client.GetAllLawyers)
	lawyers.Get("/:id", client.GetLawyerDetails)
	lawyers.Get("/:id/availability", client.GetLawyerAvailability)

	availability := app.Group("/availability", middleware.Protected(), middleware.RequireRole(models.RoleLawyer))
	availability.Get("/", lawyer.GetMyAvailability)
	availability.Post("/", lawyer.CreateAvailability)
	availability.Delete("/:id", lawyer.DeleteAvailability)

	dashboard := app.Group("/dashboard", middleware.Protected(), middleware.RequireRole(models.RoleLawyer))
	dashboard.Get("/", lawyer.GetDashboard)
}
