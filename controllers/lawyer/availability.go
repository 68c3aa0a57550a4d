package lawyer

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/consult-api/db"
	"github.com/lawbridge/consult-api/models"
)

// GetMyAvailability returns the logged-in lawyer's availability slots.
func GetMyAvailability(c *fiber.Ctx) error {
	lawyerID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var slots []models.LawyerAvailability
	if err := db.DB.Where("lawyer_id = ?", lawyerID).Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get availability",
		})
	}
	return c.JSON(slots)
}

// CreateAvailability publishes a new booking window. Validation runs before
// anything is written.
func CreateAvailability(c *fiber.Ctx) error {
	lawyerID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	slot := new(models.LawyerAvailability)
	if err := c.BodyParser(slot); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	slot.LawyerID = lawyerID

	if err := slot.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := db.DB.Create(slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create availability slot",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(slot)
}

// DeleteAvailability removes one of the lawyer's own slots.
func DeleteAvailability(c *fiber.Ctx) error {
	lawyerID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	id := c.Params("id")
	var slot models.LawyerAvailability
	if err := db.DB.First(&slot, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Availability slot not found",
		})
	}

	if slot.LawyerID != lawyerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only delete your own availability slots",
		})
	}

	if err := db.DB.Delete(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete availability slot",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
