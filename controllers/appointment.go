package controllers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/lawbridge/consult-api/db"
	"github.com/lawbridge/consult-api/models"
	"github.com/lawbridge/consult-api/redis"
	"github.com/lawbridge/consult-api/utils"
)

// FetchAppointments loads the role-appropriate appointment list, counterpart
// profile included, ordered by start time ascending.
func FetchAppointments(dbc *gorm.DB, userID uint, role models.Role) ([]models.Appointment, error) {
	var appointments []models.Appointment
	query := dbc.Order("start_time asc")
	if role == models.RoleLawyer {
		query = query.Preload("Client").Where("lawyer_id = ?", userID)
	} else {
		query = query.Preload("Lawyer").Where("client_id = ?", userID)
	}
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func currentIdentity(c *fiber.Ctx) (uint, models.Role, error) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return 0, "", fmt.Errorf("user ID not found in context")
	}
	role, ok := c.Locals("role").(models.Role)
	if !ok {
		return 0, "", fmt.Errorf("user role not found in context")
	}
	return userID, role, nil
}

func loadAppointments(userID uint, role models.Role) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if redis.GetAppointmentCache(userID, &appointments) {
		return appointments, nil
	}

	appointments, err := FetchAppointments(db.DB, userID, role)
	if err != nil {
		return nil, err
	}
	redis.SetAppointmentCache(userID, appointments)
	return appointments, nil
}

// GetAppointments returns the full role-branched list.
func GetAppointments(c *fiber.Ctx) error {
	userID, role, err := currentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	appointments, err := loadAppointments(userID, role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointments)
}

// GetUpcomingAppointments returns scheduled appointments that have not
// started, each annotated with its join eligibility.
func GetUpcomingAppointments(c *fiber.Ctx) error {
	userID, role, err := currentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	appointments, err := loadAppointments(userID, role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}

	now := time.Now()
	upcoming := models.UpcomingAppointments(appointments, now)

	type upcomingEntry struct {
		models.Appointment
		CanJoin bool `json:"can_join"`
	}
	entries := make([]upcomingEntry, 0, len(upcoming))
	for _, a := range upcoming {
		entries = append(entries, upcomingEntry{Appointment: a, CanJoin: a.CanJoin(now)})
	}

	return c.JSON(fiber.Map{
		"appointments": entries,
		"count":        len(entries),
	})
}

// GetPastAppointments returns completed appointments plus scheduled ones
// whose start time has elapsed.
func GetPastAppointments(c *fiber.Ctx) error {
	userID, role, err := currentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	appointments, err := loadAppointments(userID, role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	past := models.PastAppointments(appointments, time.Now())
	return c.JSON(fiber.Map{
		"appointments": past,
		"count":        len(past),
	})
}

// GetCancelledAppointments returns canceled appointments.
func GetCancelledAppointments(c *fiber.Ctx) error {
	userID, role, err := currentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	appointments, err := loadAppointments(userID, role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	cancelled := models.CancelledAppointments(appointments)
	return c.JSON(fiber.Map{
		"appointments": cancelled,
		"count":        len(cancelled),
	})
}

// GetAppointment returns a single appointment visible to the caller.
func GetAppointment(c *fiber.Ctx) error {
	userID, _, err := currentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.Preload("Client").Preload("Lawyer").First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}

	if appointment.ClientID != userID && appointment.LawyerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only view your own appointments",
		})
	}

	return c.JSON(appointment)
}

// UpdateAppointmentStatus moves an appointment through its lifecycle
// (scheduled -> completed | canceled) and invalidates both parties' caches.
func UpdateAppointmentStatus(c *fiber.Ctx) error {
	userID, _, err := currentIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	appointmentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment ID",
		})
	}

	var updateData struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	newStatus := models.AppointmentStatus(updateData.Status)
	if newStatus != models.StatusCompleted && newStatus != models.StatusCanceled {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status. Must be 'completed' or 'canceled'.",
		})
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, appointmentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found",
		})
	}

	if appointment.ClientID != userID && appointment.LawyerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only update your own appointments",
		})
	}

	if err := appointment.UpdateStatus(db.DB, newStatus); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	redis.InvalidateAppointments(appointment.ClientID, appointment.LawyerID)

	if newStatus == models.StatusCanceled {
		notifyCancellation(&appointment)
	}

	return c.JSON(fiber.Map{
		"message":     "Appointment status updated successfully",
		"appointment": appointment,
	})
}

func notifyCancellation(appointment *models.Appointment) {
	payload := fmt.Sprintf(`{"appointment_id":%d}`, appointment.ID)
	for _, userID := range []uint{appointment.ClientID, appointment.LawyerID} {
		notification := models.Notification{
			UserID:  userID,
			Type:    models.NotificationAppointmentCancellation,
			Title:   "Appointment canceled",
			Message: fmt.Sprintf("Your consultation on %s has been canceled.", appointment.StartTime.Format("2006-01-02 15:04")),
			Data:    payload,
		}
		if err := db.DB.Create(&notification).Error; err != nil {
			log.Printf("Failed to create cancellation notification for user %d: %v", userID, err)
		}
	}
}
