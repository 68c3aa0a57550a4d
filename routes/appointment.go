package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/consult-api/controllers"
	"github.com/lawbridge/consult-api/controllers/client"
	"github.com/lawbridge/consult-api/middleware"
	"github.com/lawbridge/consult-api/models"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App) {
	appointment := app.Group("/appointments", middleware.Protected())
	appointment.Get("/", controllers.GetAppointments)
	appointment.Get("/upcoming", controllers.GetUpcomingAppointments)
	appointment.Get("/past", controllers.GetPastAppointments)
	appointment.Get("/cancelled", controllers.GetCancelledAppointments)
	appointment.Get("/:id", controllers.GetAppointment)
	appointment.Post("/", middleware.RequireRole(models.RoleClient), client.BookAppointment)
	appointment.Patch("/:id/status", controllers.UpdateAppointmentStatus)
}
