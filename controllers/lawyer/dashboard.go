package lawyer

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/consult-api/db"
	"github.com/lawbridge/consult-api/models"
)

// GetDashboard returns the counts the lawyer dashboard renders: today's
// consultations, the upcoming total, and lifetime completed sessions.
func GetDashboard(c *fiber.Ctx) error {
	lawyerID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var today, upcoming, completed int64

	db.DB.Model(&models.Appointment{}).
		Where("lawyer_id = ? AND status = ?", lawyerID, models.StatusScheduled).
		Where("start_time >= ? AND start_time < ?", dayStart, dayEnd).
		Count(&today)

	db.DB.Model(&models.Appointment{}).
		Where("lawyer_id = ? AND status = ? AND start_time > ?", lawyerID, models.StatusScheduled, now).
		Count(&upcoming)

	db.DB.Model(&models.Appointment{}).
		Where("lawyer_id = ? AND status = ?", lawyerID, models.StatusCompleted).
		Count(&completed)

	return c.JSON(fiber.Map{
		"today":     today,
		"upcoming":  upcoming,
		"completed": completed,
	})
}
