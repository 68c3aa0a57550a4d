package models

import (
	"time"
)

type NotificationType string

const (
	NotificationAppointmentReminder     NotificationType = "appointment_reminder"
	NotificationNewMessage              NotificationType = "new_message"
	NotificationAppointmentConfirmation NotificationType = "appointment_confirmation"
	NotificationAppointmentCancellation NotificationType = "appointment_cancellation"
)

// Notification is only ever mutated by flipping Read to true.
type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"user_id" gorm:"not null;index"`
	Type      NotificationType `json:"type" gorm:"type:varchar(40);not null"`
	Title     string           `json:"title" gorm:"not null"`
	Message   string           `json:"message"`
	Read      bool             `json:"read" gorm:"default:false"`
	Data      string           `json:"data" gorm:"type:text"` // opaque JSON payload
	CreatedAt time.Time        `json:"created_at"`
}

// UnreadCount recomputes the badge count from a fetched list. It is
// deliberately client-side arithmetic, not a server aggregate, so two
// concurrent sessions can transiently disagree.
func UnreadCount(notifications []Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count
}
