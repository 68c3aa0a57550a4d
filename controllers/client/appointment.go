package client

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

type BookingInput struct {
	LawyerID  uint      `json:"lawyer_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Notes     string    `json:"notes"`
}

// BookAppointment books a consultation slot with a lawyer. All validation
// runs before anything is written; the availability and conflict checks are
// repeated inside the transaction so two clients cannot book the same slot.
func BookAppointment(c *fiber.Ctx) error {
	clientID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	input := new(BookingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if input.LawyerID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "lawyer_id is required",
		})
	}
	if !input.EndTime.After(input.StartTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "End time must be after start time",
		})
	}
	if input.StartTime.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot schedule an appointment in the past",
		})
	}

	var lawyer models.User
	if err := db.DB.First(&lawyer, input.LawyerID).Error; err != nil || !lawyer.IsLawyer() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lawyer not found",
		})
	}

	withinHours, err := utils.CheckWithinAvailability(db.DB, input.LawyerID, input.StartTime, input.EndTime)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Error checking availability",
			Error:   err.Error(),
		})
	}
	if !withinHours {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Requested time is outside the lawyer's availability",
		})
	}

	appointment := models.Appointment{
		ClientID:  clientID,
		LawyerID:  input.LawyerID,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Status:    models.StatusScheduled,
		Notes:     input.Notes,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		// Recheck inside the transaction to prevent a concurrent booking
		// slipping between validation and create.
		available, err := utils.CheckNoConflict(tx, input.LawyerID, input.StartTime, input.EndTime)
		if err != nil {
			return err
		}
		if !available {
			return fmt.Errorf("time slot not available")
		}

		if err := tx.Create(&appointment).Error; err != nil {
			return err
		}

		payload := fmt.Sprintf(`{"appointment_id":%d}`, appointment.ID)
		notifications := []models.Notification{
			{
				UserID:  clientID,
				Type:    models.NotificationAppointmentConfirmation,
				Title:   "Appointment booked",
				Message: fmt.Sprintf("Your consultation with %s is booked for %s.", lawyer.FullName(), appointment.StartTime.Format("2006-01-02 15:04")),
				Data:    payload,
			},
			{
				UserID:  input.LawyerID,
				Type:    models.NotificationAppointmentConfirmation,
				Title:   "New consultation booked",
				Message: fmt.Sprintf("A client booked a consultation for %s.", appointment.StartTime.Format("2006-01-02 15:04")),
				Data:    payload,
			},
		}
		return tx.Create(&notifications).Error
	})
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Time slot not available or failed to create appointment",
			Error:   err.Error(),
		})
	}

	redis.InvalidateAppointments(clientID, input.LawyerID)

	sendBookingEmails(&appointment, &lawyer)

	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// sendBookingEmails is best effort: a failed confirmation email never undoes
// a booking that already committed.
func sendBookingEmails(appointment *models.Appointment, lawyer *models.User) {
	var client models.User
	if err := db.DB.First(&client, appointment.ClientID).Error; err != nil {
		log.Printf("Failed to load client %d for booking email: %v", appointment.ClientID, err)
		return
	}

	clientBody := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your consultation has been booked.</p>
		<ul>
			<li><strong>Lawyer:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>End Time:</strong> %s</li>
		</ul>
		<p>Best regards,</p>
		<p>The LawBridge Team</p>
	`, client.FullName(), lawyer.FullName(),
		appointment.StartTime.Format("2006-01-02 15:04:05"),
		appointment.EndTime.Format("2006-01-02 15:04:05"))
	if err := utils.SendEmail(client.Email, "Consultation Booked", clientBody); err != nil {
		log.Printf("Failed to send booking email to client %d: %v", client.ID, err)
	}

	lawyerBody := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have a new consultation.</p>
		<ul>
			<li><strong>Client:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>End Time:</strong> %s</li>
		</ul>
		<p>Best regards,</p>
		<p>The LawBridge Team</p>
	`, lawyer.FullName(), client.FullName(),
		appointment.StartTime.Format("2006-01-02 15:04:05"),
		appointment.EndTime.Format("2006-01-02 15:04:05"))
	if err := utils.SendEmail(lawyer.Email, "New Consultation Booked", lawyerBody); err != nil {
		log.Printf("Failed to send booking email to lawyer %d: %v", lawyer.ID, err)
	}
}
