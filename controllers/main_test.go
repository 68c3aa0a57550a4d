package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lawbridge/consult-api/db"
	"github.com/lawbridge/consult-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.User{},
		&models.Appointment{},
		&models.LawyerAvailability{},
		&models.Notification{},
		&models.Message{},
		&models.VideoSession{},
	)
	assert.NoError(t, err)

	db.DB = gdb
	return gdb
}

// asUser wraps a handler the way the JWT middleware would, injecting the
// caller's identity into locals.
func asUser(userID uint, role models.Role, handler fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		c.Locals("role", role)
		return handler(c)
	}
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.NoError(t, json.Unmarshal(raw, dest))
}
