package redis

import (
	"encoding/json"
	"fmt"
	"log"
	"time"
)

const appointmentCacheTTL = 5 * time.Minute

func appointmentKey(userID uint) string {
	return fmt.Sprintf("appointments:%d", userID)
}

// GetAppointmentCache reads a user's cached appointment list into dest.
// Returns false on miss or when Redis is not configured.
func GetAppointmentCache(userID uint, dest interface{}) bool {
	if Client == nil {
		return false
	}
	raw, err := Client.Get(Ctx, appointmentKey(userID)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Printf("Failed to decode cached appointments for user %d: %v", userID, err)
		return false
	}
	return true
}

func SetAppointmentCache(userID uint, value interface{}) {
	if Client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("Failed to encode appointments for user %d: %v", userID, err)
		return
	}
	if err := Client.Set(Ctx, appointmentKey(userID), raw, appointmentCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache appointments for user %d: %v", userID, err)
	}
}

// InvalidateAppointments drops the cached lists of every affected user. The
// remote store is the source of truth; mutations invalidate, never patch.
func InvalidateAppointments(userIDs ...uint) {
	if Client == nil {
		return
	}
	for _, id := range userIDs {
		if err := Client.Del(Ctx, appointmentKey(id)).Err(); err != nil {
			log.Printf("Failed to invalidate appointment cache for user %d: %v", id, err)
		}
	}
}
