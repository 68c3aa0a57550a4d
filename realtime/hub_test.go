package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/lawbridge/consult-api/models"
)

func testHub(t *testing.T) *Hub {
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not reachable: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return NewHub(rdb)
}

func TestNilHubIsInert(t *testing.T) {
	var h *Hub

	assert.NoError(t, h.PublishMessage(context.Background(), &models.Message{
		SenderID:    1,
		RecipientID: 2,
		Content:     "hi",
	}))

	_, err := h.SubscribeConversation(context.Background(), 2, 1)
	assert.Error(t, err)
}

func TestPublishAndSubscribe(t *testing.T) {
	h := testHub(t)

	sub, err := h.SubscribeConversation(context.Background(), 2, 1)
	assert.NoError(t, err)
	defer sub.Close()

	msg := models.Message{ID: 10, SenderID: 1, RecipientID: 2, Content: "hello"}
	assert.NoError(t, h.PublishMessage(context.Background(), &msg))

	select {
	case got := <-sub.C:
		assert.Equal(t, msg.ID, got.ID)
		assert.Equal(t, "hello", got.Content)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestSubscriptionFiltersSender(t *testing.T) {
	h := testHub(t)

	sub, err := h.SubscribeConversation(context.Background(), 2, 1)
	assert.NoError(t, err)
	defer sub.Close()

	// A message from another sender to the same recipient is dropped.
	assert.NoError(t, h.PublishMessage(context.Background(), &models.Message{
		ID: 11, SenderID: 5, RecipientID: 2, Content: "wrong sender",
	}))
	assert.NoError(t, h.PublishMessage(context.Background(), &models.Message{
		ID: 12, SenderID: 1, RecipientID: 2, Content: "right sender",
	}))

	select {
	case got := <-sub.C:
		assert.Equal(t, uint(12), got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	h := testHub(t)

	sub, err := h.SubscribeConversation(context.Background(), 2, 1)
	assert.NoError(t, err)

	sub.Close()

	// The channel is closed after Close returns; nothing published afterwards
	// can be observed on it.
	assert.NoError(t, h.PublishMessage(context.Background(), &models.Message{
		ID: 13, SenderID: 1, RecipientID: 2, Content: "late",
	}))

	_, open := <-sub.C
	assert.False(t, open)

	// A fresh subscription for another contact starts clean.
	next, err := h.SubscribeConversation(context.Background(), 2, 3)
	assert.NoError(t, err)
	defer next.Close()

	select {
	case msg, ok := <-next.C:
		if ok {
			t.Fatalf("unexpected message %d on new subscription", msg.ID)
		}
	case <-time.After(200 * time.Millisecond):
	}
}
