package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/lawbridge/consult-api/models"
)

// Hub fans message-insert events out over Redis pub/sub. Every user has one
// channel; a conversation subscription filters that channel down to a single
// sender.
type Hub struct {
	rdb *redis.Client
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{rdb: rdb}
}

func messageChannel(recipientID uint) string {
	return fmt.Sprintf("messages:%d", recipientID)
}

// PublishMessage announces a newly inserted message on the recipient's
// channel. A nil client makes this a no-op so the send path still works
// without Redis.
func (h *Hub) PublishMessage(ctx context.Context, msg *models.Message) error {
	if h == nil || h.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, messageChannel(msg.RecipientID), payload).Err()
}

// Subscription is a scoped, cancelable stream of messages from one sender.
// Close cancels the pump goroutine and waits for it to drain, so callers that
// switch conversations always tear the old stream down before opening the
// next one; no event from the previous contact can be delivered afterwards.
type Subscription struct {
	C chan models.Message

	pubsub *redis.PubSub
	cancel context.CancelFunc
	done   chan struct{}
}

// SubscribeConversation opens a stream of messages sent to recipientID,
// filtered to those authored by senderID.
func (h *Hub) SubscribeConversation(ctx context.Context, recipientID, senderID uint) (*Subscription, error) {
	if h == nil || h.rdb == nil {
		return nil, fmt.Errorf("realtime delivery is not configured")
	}

	ctx, cancel := context.WithCancel(ctx)
	pubsub := h.rdb.Subscribe(ctx, messageChannel(recipientID))

	// Force the subscription to be established before returning, so a
	// message published right after this call cannot be lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		pubsub.Close()
		return nil, err
	}

	sub := &Subscription{
		C:      make(chan models.Message, 16),
		pubsub: pubsub,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		defer close(sub.C)
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-ch:
				if !ok {
					return
				}
				var msg models.Message
				if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
					log.Printf("Failed to decode realtime message: %v", err)
					continue
				}
				if msg.SenderID != senderID {
					continue
				}
				select {
				case sub.C <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return sub, nil
}

// Close tears the subscription down deterministically: after it returns no
// further message is delivered on C.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.cancel()
	s.pubsub.Close()
	<-s.done
}
