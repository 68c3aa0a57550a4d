package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCanceled  AppointmentStatus = "canceled"
)

// Join window around the start time: a consultation can be joined from ten
// minutes before start until thirty minutes after.
const (
	JoinWindowBefore = 10 * time.Minute
	JoinWindowAfter  = 30 * time.Minute
)

type Appointment struct {
	gorm.Model
	ClientID     uint              `json:"client_id"`
	Client       User              `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	LawyerID     uint              `json:"lawyer_id"`
	Lawyer       User              `json:"lawyer,omitempty" gorm:"foreignKey:LawyerID"`
	StartTime    time.Time         `json:"start_time"`
	EndTime      time.Time         `json:"end_time"`
	Status       AppointmentStatus `json:"status"`
	MeetingURL   string            `json:"meeting_url,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	ReminderSent bool              `json:"-" gorm:"default:false"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	return nil
}

// ValidateTransition enforces the status lifecycle: scheduled may move to
// completed or canceled, both of which are terminal. Elapsed time never
// changes the stored status; the partition helpers below reclassify
// scheduled-but-started rows for display only.
func ValidateTransition(from, to AppointmentStatus) error {
	switch from {
	case StatusScheduled:
		if to != StatusCompleted && to != StatusCanceled {
			return fmt.Errorf("invalid transition from scheduled to %s", to)
		}
	case StatusCompleted, StatusCanceled:
		return fmt.Errorf("no transitions allowed from %s", from)
	default:
		return fmt.Errorf("unknown status %s", from)
	}
	return nil
}

func (a *Appointment) UpdateStatus(tx *gorm.DB, newStatus AppointmentStatus) error {
	if err := ValidateTransition(a.Status, newStatus); err != nil {
		return err
	}
	a.Status = newStatus
	return tx.Save(a).Error
}

// UpcomingAppointments returns scheduled appointments that have not started
// yet. Together with PastAppointments and CancelledAppointments this
// partitions a list (an appointment starting exactly at now lands in neither
// the upcoming nor the past view but remains in the full list).
func UpcomingAppointments(appointments []Appointment, now time.Time) []Appointment {
	var out []Appointment
	for _, a := range appointments {
		if a.Status == StatusScheduled && a.StartTime.After(now) {
			out = append(out, a)
		}
	}
	return out
}

// PastAppointments returns completed appointments plus scheduled ones whose
// start time has already elapsed. Classification is on start_time, not
// end_time, matching what the dashboards display.
func PastAppointments(appointments []Appointment, now time.Time) []Appointment {
	var out []Appointment
	for _, a := range appointments {
		if a.Status == StatusCompleted ||
			(a.Status == StatusScheduled && a.StartTime.Before(now)) {
			out = append(out, a)
		}
	}
	return out
}

func CancelledAppointments(appointments []Appointment) []Appointment {
	var out []Appointment
	for _, a := range appointments {
		if a.Status == StatusCanceled {
			out = append(out, a)
		}
	}
	return out
}

// CanJoin reports whether the consultation is joinable at the given instant:
// a meeting URL must exist and now must fall inside the join window.
func (a *Appointment) CanJoin(now time.Time) bool {
	if a.MeetingURL == "" {
		return false
	}
	windowOpen := a.StartTime.Add(-JoinWindowBefore)
	windowClose := a.StartTime.Add(JoinWindowAfter)
	return !now.Before(windowOpen) && !now.After(windowClose)
}
