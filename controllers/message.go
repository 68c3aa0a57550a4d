package controllers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"github.com/lawbridge/consult-api/db"
	"github.com/lawbridge/consult-api/models"
	"github.com/lawbridge/consult-api/realtime"
	"github.com/lawbridge/consult-api/utils"
)

var hub *realtime.Hub

// SetHub wires the realtime hub used for message delivery. Called once from
// main; a nil hub disables the stream endpoint but not sending.
func SetHub(h *realtime.Hub) {
	hub = h
}

// Contact is a conversation partner in the contacts list. Unread counts are
// tracked per open conversation, not across the whole list, so the
// placeholder is always zero here.
type Contact struct {
	ID          uint   `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	LastMessage string `json:"last_message"`
	UnreadCount int    `json:"unread_count"`
}

// FetchContacts lists every profile of the opposite role.
func FetchContacts(dbc *gorm.DB, role models.Role) ([]Contact, error) {
	var users []models.User
	if err := dbc.Where("role = ?", models.OppositeRole(role)).Find(&users).Error; err != nil {
		return nil, err
	}
	contacts := make([]Contact, 0, len(users))
	for _, u := range users {
		contacts = append(contacts, Contact{
			ID:          u.ID,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			AvatarURL:   u.AvatarURL,
			LastMessage: "No messages yet",
			UnreadCount: 0,
		})
	}
	return contacts, nil
}

// FetchConversation loads both directions of a conversation ordered by
// creation time. The OR query is re-filtered row by row so only messages
// whose endpoints exactly match the pair survive.
func FetchConversation(dbc *gorm.DB, userID, contactID uint) ([]models.Message, error) {
	var messages []models.Message
	err := dbc.Preload("Sender").
		Where("sender_id IN ? OR recipient_id IN ?", []uint{userID, contactID}, []uint{userID, contactID}).
		Order("created_at asc").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if m.BelongsToConversation(userID, contactID) {
			m.Sender.Password = ""
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// MarkConversationRead flags every unread message the contact sent to the
// user as read.
func MarkConversationRead(dbc *gorm.DB, userID, contactID uint) error {
	return dbc.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND read = ?", contactID, userID, false).
		Update("read", true).Error
}

// GetContacts returns the opposite-role contact list.
func GetContacts(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(models.Role)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User role not found in context",
		})
	}

	contacts, err := FetchContacts(db.DB, role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load contacts",
			Error:   err.Error(),
		})
	}
	return c.JSON(contacts)
}

// GetConversation returns the message history with one contact and marks the
// contact's unread messages as read.
func GetConversation(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	contactID, err := c.ParamsInt("contactId")
	if err != nil || contactID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid contact ID",
		})
	}

	messages, err := FetchConversation(db.DB, userID, uint(contactID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch messages",
			Error:   err.Error(),
		})
	}

	if err := MarkConversationRead(db.DB, userID, uint(contactID)); err != nil {
		log.Printf("Failed to mark conversation %d/%d read: %v", userID, contactID, err)
	}

	return c.JSON(messages)
}

type SendMessageInput struct {
	RecipientID uint   `json:"recipient_id"`
	Content     string `json:"content"`
}

// SendMessage inserts a message and announces it on the recipient's channel.
// Whitespace-only content is rejected before anything is written.
func SendMessage(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	input := new(SendMessageInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if strings.TrimSpace(input.Content) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message content cannot be empty",
		})
	}
	if input.RecipientID == 0 || input.RecipientID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recipient",
		})
	}

	var recipient models.User
	if err := db.DB.First(&recipient, input.RecipientID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Recipient not found",
		})
	}

	message := models.Message{
		SenderID:    userID,
		RecipientID: input.RecipientID,
		Content:     input.Content,
		Read:        false,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		notification := models.Notification{
			UserID:  input.RecipientID,
			Type:    models.NotificationNewMessage,
			Title:   "New message",
			Message: "You have a new message.",
			Data:    fmt.Sprintf(`{"message_id":%d,"sender_id":%d}`, message.ID, userID),
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to send message",
			Error:   err.Error(),
		})
	}

	// Return the row with the server-assigned id and the sender's display
	// fields, so the caller's appended copy matches a later refetch.
	if err := db.DB.Preload("Sender").First(&message, message.ID).Error; err == nil {
		message.Sender.Password = ""
	}

	if err := hub.PublishMessage(c.Context(), &message); err != nil {
		log.Printf("Failed to publish message %d: %v", message.ID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

// StreamConversation serves insert events for the active contact as
// server-sent events. The subscription is scoped to the request: when the
// client disconnects (or switches contacts and reconnects) it is closed
// before any new stream for another contact can observe stale events.
func StreamConversation(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	contactID, err := c.ParamsInt("contactId")
	if err != nil || contactID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid contact ID",
		})
	}

	sub, err := hub.SubscribeConversation(c.Context(), userID, uint(contactID))
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Realtime delivery unavailable",
		})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Close()
		heartbeat := time.NewTicker(streamHeartbeatInterval)
		defer heartbeat.Stop()

		streamEvents(w, sub.C, heartbeat.C, func(msg models.Message) {
			// Delivery to the open conversation marks the message read.
			if err := db.DB.Model(&models.Message{}).
				Where("id = ?", msg.ID).
				Update("read", true).Error; err != nil {
				log.Printf("Failed to mark streamed message %d read: %v", msg.ID, err)
			}
		})
	}))

	return nil
}

const streamHeartbeatInterval = 15 * time.Second

// streamEvents forwards messages and periodic heartbeat comments to one SSE
// client. It returns when the event channel closes or a write is refused;
// the heartbeat guarantees a silently dropped connection fails a write within
// one interval, so the caller's deferred teardown runs instead of the pump
// blocking on an idle conversation forever.
func streamEvents(w *bufio.Writer, events <-chan models.Message, heartbeat <-chan time.Time, delivered func(models.Message)) {
	for {
		select {
		case msg, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
			if delivered != nil {
				delivered(msg)
			}
		case <-heartbeat:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}
