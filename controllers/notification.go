package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/lawbridge/consult-api/db"
	"github.com/lawbridge/consult-api/models"
	"github.com/lawbridge/consult-api/utils"
)

// FetchNotifications returns a user's notifications, newest first.
func FetchNotifications(dbc *gorm.DB, userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := dbc.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifications).Error
	return notifications, err
}

// MarkNotificationRead flips the read flag. Idempotent: marking an already
// read notification issues the update again and succeeds.
func MarkNotificationRead(dbc *gorm.DB, userID, notificationID uint) error {
	var notification models.Notification
	if err := dbc.Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error; err != nil {
		return err
	}
	return dbc.Model(&notification).Update("read", true).Error
}

// GetNotifications returns the list plus the unread badge count, recomputed
// from the fetched rows on every call.
func GetNotifications(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	notifications, err := FetchNotifications(db.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch notifications",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"unread_count":  models.UnreadCount(notifications),
	})
}

// MarkAsRead marks one notification read.
func MarkAsRead(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	notificationID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID",
		})
	}

	if err := MarkNotificationRead(db.DB, userID, uint(notificationID)); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Notification not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Notification marked as read",
	})
}
