package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/consult-api/db"
	"github.com/lawbridge/consult-api/models"
	"github.com/lawbridge/consult-api/utils"
)

type UpdateProfileInput struct {
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Specialty       string  `json:"specialty"`
	YearsExperience int     `json:"years_experience"`
	Bio             string  `json:"bio"`
	HourlyRate      float64 `json:"hourly_rate"`
}

// UpdateProfile updates the caller's display fields. Role and email are
// immutable here.
func UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	input := new(UpdateProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if user.IsLawyer() {
		if input.Specialty != "" {
			user.Specialty = input.Specialty
		}
		if input.YearsExperience != 0 {
			user.YearsExperience = input.YearsExperience
		}
		if input.Bio != "" {
			user.Bio = input.Bio
		}
		if input.HourlyRate != 0 {
			user.HourlyRate = input.HourlyRate
		}
	}

	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update profile",
		})
	}

	user.Password = ""
	return c.JSON(user)
}

// UpdateAvatar uploads a new profile picture and stores its URL.
func UpdateAvatar(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "avatar file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}
	defer file.Close()

	url, err := utils.UploadAvatar(file, fmt.Sprintf("user-%d", userID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to upload avatar",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("avatar_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save avatar URL",
		})
	}

	return c.JSON(fiber.Map{
		"avatar_url": url,
	})
}
