package client

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/lawbridge/consult-api/db"
	"github.com/lawbridge/consult-api/models"
)

// GetAllLawyers returns the lawyer directory for browsing and booking.
func GetAllLawyers(c *fiber.Ctx) error {
	var lawyers []models.User

	// Pagination parameters; malformed or non-positive values fall back to
	// the defaults so the page math below always has a positive divisor.
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	filtered := func() *gorm.DB {
		query := db.DB.Model(&models.User{}).Where("role = ?", models.RoleLawyer)
		if specialty := c.Query("specialty"); specialty != "" {
			query = query.Where("specialty = ?", specialty)
		}
		return query
	}

	if err := filtered().Limit(limit).Offset(offset).Find(&lawyers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch lawyers",
		})
	}

	// The total reflects the same filter as the listing.
	var count int64
	filtered().Count(&count)

	for i := range lawyers {
		lawyers[i].Password = ""
	}

	return c.JSON(fiber.Map{
		"lawyers": lawyers,
		"total":   count,
		"page":    page,
		"limit":   limit,
		"pages":   (int(count) + limit - 1) / limit,
	})
}

// GetLawyerDetails returns details for a specific lawyer
func GetLawyerDetails(c *fiber.Ctx) error {
	id := c.Params("id")

	var lawyer models.User
	if err := db.DB.First(&lawyer, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lawyer not found",
		})
	}

	if !lawyer.IsLawyer() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User is not a lawyer",
		})
	}

	// Remove sensitive information
	lawyer.Password = ""

	return c.JSON(lawyer)
}

// GetLawyerAvailability returns a lawyer's published availability slots.
func GetLawyerAvailability(c *fiber.Ctx) error {
	id := c.Params("id")

	var lawyer models.User
	if err := db.DB.First(&lawyer, id).Error; err != nil || !lawyer.IsLawyer() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lawyer not found",
		})
	}

	var slots []models.LawyerAvailability
	if err := db.DB.Where("lawyer_id = ?", lawyer.ID).Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch availability",
		})
	}

	return c.JSON(slots)
}
