package models

import (
	"time"
)

// Message is a direct message between a client and a lawyer. The Sender
// association carries the denormalized display fields the conversation view
// needs (name, avatar).
type Message struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SenderID    uint      `json:"sender_id" gorm:"not null;index"`
	Sender      User      `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	RecipientID uint      `json:"recipient_id" gorm:"not null;index"`
	Content     string    `json:"content" gorm:"not null"`
	Read        bool      `json:"read" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

// BelongsToConversation re-confirms both endpoints of the message match the
// (user, contact) pair in either direction. The conversation query is OR
// based, so rows are filtered again before they are returned.
func (m *Message) BelongsToConversation(userID, contactID uint) bool {
	return (m.SenderID == userID && m.RecipientID == contactID) ||
		(m.SenderID == contactID && m.RecipientID == userID)
}
