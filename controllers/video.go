package controllers

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lawbridge/consult-api/db"
	"github.com/lawbridge/consult-api/models"
	"github.com/lawbridge/consult-api/redis"
	"github.com/lawbridge/consult-api/utils"
)

const videoTokenTTL = time.Hour

// RoomName derives the room identifier for an appointment.
func RoomName(appointmentID uint) string {
	return fmt.Sprintf("room-%d", appointmentID)
}

// NewRoomToken signs a short-lived access token scoped to one room and one
// participant.
func NewRoomToken(room string, userID uint, role models.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(videoTokenTTL)
	claims := jwt.MapClaims{
		"room": room,
		"id":   userID,
		"role": string(role),
		"exp":  expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "solid_secret_key"
	}
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

type CreateSessionInput struct {
	AppointmentID uint `json:"appointment_id"`
}

// CreateVideoSession provisions the room for a consultation. Lawyer only;
// one session per appointment. The appointment's meeting URL is stamped in
// the same transaction as the session row.
func CreateVideoSession(c *fiber.Ctx) error {
	lawyerID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	input := new(CreateSessionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, input.AppointmentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found",
		})
	}
	if appointment.LawyerID != lawyerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only start sessions for your own appointments",
		})
	}
	if appointment.Status != models.StatusScheduled {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Appointment is not scheduled",
		})
	}

	var existing models.VideoSession
	if db.DB.Where("appointment_id = ?", appointment.ID).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A video session already exists for this appointment",
		})
	}

	room := RoomName(appointment.ID)
	session := models.VideoSession{
		AppointmentID: appointment.ID,
		Provider:      models.ProviderZoom,
		MeetingID:     uuid.NewString(),
		RoomName:      room,
		JoinURL:       fmt.Sprintf("https://meet.example.com/%s", room),
		Status:        models.VideoSessionCreated,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		return tx.Model(&appointment).Update("meeting_url", session.JoinURL).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create video session",
			Error:   err.Error(),
		})
	}

	redis.InvalidateAppointments(appointment.ClientID, appointment.LawyerID)

	return c.Status(fiber.StatusCreated).JSON(session)
}

// JoinVideoSession issues the caller's room credentials. Either party may
// join; the first join moves the session from created to started.
func JoinVideoSession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}
	role, _ := c.Locals("role").(models.Role)

	appointmentID, err := c.ParamsInt("appointmentId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment ID",
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
			"error": "You can only join your own consultations",
		})
	}

	var session models.VideoSession
	if err := db.DB.Where("appointment_id = ?", appointment.ID).First(&session).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Video session not found",
		})
	}
	if session.Status == models.VideoSessionEnded || session.Status == models.VideoSessionFailed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Video session is no longer joinable",
		})
	}

	if session.Status == models.VideoSessionCreated {
		if err := session.UpdateStatus(db.DB, models.VideoSessionStarted); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	token, expiresAt, err := NewRoomToken(session.RoomName, userID, role, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate room token",
		})
	}

	return c.JSON(fiber.Map{
		"room_name":  session.RoomName,
		"join_url":   session.JoinURL,
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// GetVideoSession returns the session row for an appointment.
func GetVideoSession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	appointmentID, err := c.ParamsInt("appointmentId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment ID",
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
			"error": "You can only view your own consultations",
		})
	}

	var session models.VideoSession
	if err := db.DB.Where("appointment_id = ?", appointment.ID).First(&session).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Video session not found",
		})
	}
	return c.JSON(session)
}

// UpdateVideoSessionStatus moves a session through its lifecycle.
func UpdateVideoSessionStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	sessionID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
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

	var session models.VideoSession
	if err := db.DB.Preload("Appointment").First(&session, sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Video session not found",
		})
	}
	if session.Appointment.ClientID != userID && session.Appointment.LawyerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only update your own sessions",
		})
	}

	if err := session.UpdateStatus(db.DB, models.VideoSessionStatus(updateData.Status)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(session)
}
