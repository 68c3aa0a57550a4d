package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/lawbridge/consult-api/models"
)

func TestFetchNotificationsOrdering(t *testing.T) {
	gdb := setupTestDB(t)

	old := models.Notification{
		UserID:  1,
		Type:    models.NotificationAppointmentReminder,
		Title:   "Reminder",
		Message: "Your consultation starts in an hour.",
	}
	assert.NoError(t, gdb.Create(&old).Error)
	gdb.Model(&old).Update("created_at", time.Now().Add(-time.Hour))

	recent := models.Notification{
		UserID:  1,
		Type:    models.NotificationNewMessage,
		Title:   "New message",
		Message: "You have a new message.",
	}
	assert.NoError(t, gdb.Create(&recent).Error)

	// Another user's notification never leaks in.
	assert.NoError(t, gdb.Create(&models.Notification{
		UserID:  2,
		Type:    models.NotificationNewMessage,
		Title:   "New message",
		Message: "You have a new message.",
	}).Error)

	notifications, err := FetchNotifications(gdb, 1)
	assert.NoError(t, err)
	assert.Len(t, notifications, 2)
	assert.Equal(t, recent.ID, notifications[0].ID)
	assert.Equal(t, old.ID, notifications[1].ID)
}

func TestMarkNotificationReadIdempotent(t *testing.T) {
	gdb := setupTestDB(t)

	notification := models.Notification{
		UserID:  1,
		Type:    models.NotificationAppointmentConfirmation,
		Title:   "Appointment confirmed",
		Message: "Your appointment is booked.",
	}
	assert.NoError(t, gdb.Create(&notification).Error)
	assert.False(t, notification.Read)

	assert.NoError(t, MarkNotificationRead(gdb, 1, notification.ID))

	var reloaded models.Notification
	assert.NoError(t, gdb.First(&reloaded, notification.ID).Error)
	assert.True(t, reloaded.Read)

	// Marking again succeeds and leaves the flag set.
	assert.NoError(t, MarkNotificationRead(gdb, 1, notification.ID))
	assert.NoError(t, gdb.First(&reloaded, notification.ID).Error)
	assert.True(t, reloaded.Read)
}

func TestMarkNotificationReadOwnership(t *testing.T) {
	gdb := setupTestDB(t)

	notification := models.Notification{
		UserID:  1,
		Type:    models.NotificationNewMessage,
		Title:   "New message",
		Message: "You have a new message.",
	}
	assert.NoError(t, gdb.Create(&notification).Error)

	// Another user cannot mark it.
	assert.Error(t, MarkNotificationRead(gdb, 2, notification.ID))

	var reloaded models.Notification
	assert.NoError(t, gdb.First(&reloaded, notification.ID).Error)
	assert.False(t, reloaded.Read)
}

func TestGetNotificationsUnreadCount(t *testing.T) {
	gdb := setupTestDB(t)

	for i := 0; i < 3; i++ {
		assert.NoError(t, gdb.Create(&models.Notification{
			UserID:  1,
			Type:    models.NotificationNewMessage,
			Title:   "New message",
			Message: "You have a new message.",
		}).Error)
	}
	read := models.Notification{
		UserID:  1,
		Type:    models.NotificationAppointmentReminder,
		Title:   "Reminder",
		Message: "Starting soon.",
		Read:    true,
	}
	assert.NoError(t, gdb.Create(&read).Error)

	app := fiber.New()
	app.Get("/notifications", asUser(1, models.RoleClient, GetNotifications))

	resp, err := app.Test(jsonRequest(http.MethodGet, "/notifications", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int                   `json:"unread_count"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body.Notifications, 4)
	assert.Equal(t, 3, body.UnreadCount)
}

func TestMarkAsReadHandler(t *testing.T) {
	gdb := setupTestDB(t)

	notification := models.Notification{
		UserID:  1,
		Type:    models.NotificationNewMessage,
		Title:   "New message",
		Message: "You have a new message.",
	}
	assert.NoError(t, gdb.Create(&notification).Error)

	app := fiber.New()
	app.Patch("/notifications/:id/read", asUser(1, models.RoleClient, MarkAsRead))

	resp, err := app.Test(jsonRequest(http.MethodPatch, "/notifications/1/read", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Second call is not an error.
	resp, err = app.Test(jsonRequest(http.MethodPatch, "/notifications/1/read", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPatch, "/notifications/999/read", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
