package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/lawbridge/consult-api/models"
)

func seedAppointments(t *testing.T) *gorm.DB {
	gdb := setupTestDB(t)

	assert.NoError(t, gdb.Create([]*models.User{
		{ID: 1, FirstName: "Carla", LastName: "Nguyen", Email: "carla@example.com", Role: models.RoleClient},
		{ID: 2, FirstName: "Dana", LastName: "Ortiz", Email: "dana@example.com", Role: models.RoleLawyer},
		{ID: 3, FirstName: "Frank", LastName: "Reyes", Email: "frank@example.com", Role: models.RoleClient},
	}).Error)

	now := time.Now()
	assert.NoError(t, gdb.Create([]*models.Appointment{
		{ClientID: 1, LawyerID: 2, StartTime: now.Add(2 * time.Hour), EndTime: now.Add(3 * time.Hour), Status: models.StatusScheduled},
		{ClientID: 1, LawyerID: 2, StartTime: now.Add(-24 * time.Hour), EndTime: now.Add(-23 * time.Hour), Status: models.StatusCompleted},
		{ClientID: 1, LawyerID: 2, StartTime: now.Add(48 * time.Hour), EndTime: now.Add(49 * time.Hour), Status: models.StatusCanceled},
		// Another client's appointment never shows in user 1's lists.
		{ClientID: 3, LawyerID: 2, StartTime: now.Add(4 * time.Hour), EndTime: now.Add(5 * time.Hour), Status: models.StatusScheduled},
	}).Error)

	return gdb
}

type appointmentListBody struct {
	Appointments []struct {
		models.Appointment
		CanJoin bool `json:"can_join"`
	} `json:"appointments"`
	Count int `json:"count"`
}

func TestFetchAppointmentsRoleBranch(t *testing.T) {
	gdb := seedAppointments(t)

	clientView, err := FetchAppointments(gdb, 1, models.RoleClient)
	assert.NoError(t, err)
	assert.Len(t, clientView, 3)
	for _, a := range clientView {
		assert.Equal(t, uint(1), a.ClientID)
		assert.Equal(t, "Dana", a.Lawyer.FirstName)
	}

	lawyerView, err := FetchAppointments(gdb, 2, models.RoleLawyer)
	assert.NoError(t, err)
	assert.Len(t, lawyerView, 4)
	for _, a := range lawyerView {
		assert.Equal(t, uint(2), a.LawyerID)
		assert.NotEmpty(t, a.Client.FirstName)
	}

	// Ascending by start time.
	for i := 1; i < len(lawyerView); i++ {
		assert.False(t, lawyerView[i].StartTime.Before(lawyerView[i-1].StartTime))
	}
}

func TestAppointmentViews(t *testing.T) {
	seedAppointments(t)

	app := fiber.New()
	app.Get("/appointments/upcoming", asUser(1, models.RoleClient, GetUpcomingAppointments))
	app.Get("/appointments/past", asUser(1, models.RoleClient, GetPastAppointments))
	app.Get("/appointments/cancelled", asUser(1, models.RoleClient, GetCancelledAppointments))

	var body appointmentListBody

	resp, err := app.Test(jsonRequest(http.MethodGet, "/appointments/upcoming", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, models.StatusScheduled, body.Appointments[0].Status)
	// Two hours out, no meeting URL: not joinable yet.
	assert.False(t, body.Appointments[0].CanJoin)

	resp, err = app.Test(jsonRequest(http.MethodGet, "/appointments/past", nil))
	assert.NoError(t, err)
	decodeBody(t, resp, &body)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, models.StatusCompleted, body.Appointments[0].Status)

	resp, err = app.Test(jsonRequest(http.MethodGet, "/appointments/cancelled", nil))
	assert.NoError(t, err)
	decodeBody(t, resp, &body)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, models.StatusCanceled, body.Appointments[0].Status)
}

func TestAppointmentListsRequireIdentity(t *testing.T) {
	setupTestDB(t)

	// Handlers mounted without the auth middleware's locals answer 401,
	// the same as the single-appointment handler, not a storage error.
	app := fiber.New()
	app.Get("/appointments", GetAppointments)
	app.Get("/appointments/upcoming", GetUpcomingAppointments)
	app.Get("/appointments/past", GetPastAppointments)
	app.Get("/appointments/cancelled", GetCancelledAppointments)

	for _, target := range []string{
		"/appointments",
		"/appointments/upcoming",
		"/appointments/past",
		"/appointments/cancelled",
	} {
		resp, err := app.Test(jsonRequest(http.MethodGet, target, nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, target)
	}
}

func TestGetAppointmentOwnership(t *testing.T) {
	seedAppointments(t)

	app := fiber.New()
	app.Get("/appointments/:id", asUser(1, models.RoleClient, GetAppointment))

	resp, err := app.Test(jsonRequest(http.MethodGet, "/appointments/1", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Appointment 4 belongs to another client.
	resp, err = app.Test(jsonRequest(http.MethodGet, "/appointments/4", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodGet, "/appointments/99", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateAppointmentStatus(t *testing.T) {
	gdb := seedAppointments(t)

	app := fiber.New()
	app.Patch("/appointments/:id/status", asUser(1, models.RoleClient, UpdateAppointmentStatus))

	patch := func(id string, status string) int {
		resp, err := app.Test(jsonRequest(http.MethodPatch, "/appointments/"+id+"/status", fiber.Map{
			"status": status,
		}))
		assert.NoError(t, err)
		return resp.StatusCode
	}

	// Only the two terminal statuses are accepted as targets.
	assert.Equal(t, http.StatusBadRequest, patch("1", "scheduled"))
	assert.Equal(t, http.StatusBadRequest, patch("1", "bogus"))

	assert.Equal(t, http.StatusOK, patch("1", "canceled"))

	var appointment models.Appointment
	assert.NoError(t, gdb.First(&appointment, 1).Error)
	assert.Equal(t, models.StatusCanceled, appointment.Status)

	// Canceled is terminal.
	assert.Equal(t, http.StatusBadRequest, patch("1", "completed"))

	// Cancellation notified both parties.
	var count int64
	assert.NoError(t, gdb.Model(&models.Notification{}).
		Where("type = ?", models.NotificationAppointmentCancellation).
		Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// Someone else's appointment is off limits.
	assert.Equal(t, http.StatusForbidden, patch("4", "canceled"))
}
