package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// LawyerAvailability is a booking window: either a weekly recurring slot
// keyed by day_of_week, or a one-off slot on specific_date. Times are
// "HH:MM" 24-hour strings.
type LawyerAvailability struct {
	gorm.Model
	LawyerID     uint       `json:"lawyer_id"`
	Lawyer       User       `json:"lawyer,omitempty" gorm:"foreignKey:LawyerID"`
	DayOfWeek    int        `json:"day_of_week"` // 0 Sunday .. 6 Saturday
	StartTime    string     `json:"start_time"`
	EndTime      string     `json:"end_time"`
	IsRecurring  bool       `json:"is_recurring" gorm:"default:true"`
	SpecificDate *time.Time `json:"specific_date,omitempty"`
}

const clockLayout = "15:04"

// Validate rejects malformed slots before anything is written: times must
// parse as HH:MM, the end must be strictly after the start, the weekday must
// be in range, and a non-recurring slot needs its date.
func (a *LawyerAvailability) Validate() error {
	start, err := time.Parse(clockLayout, a.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start time %q, expected HH:MM", a.StartTime)
	}
	end, err := time.Parse(clockLayout, a.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end time %q, expected HH:MM", a.EndTime)
	}
	if !end.After(start) {
		return fmt.Errorf("end time must be after start time")
	}
	if a.DayOfWeek < 0 || a.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week must be between 0 and 6")
	}
	if !a.IsRecurring && a.SpecificDate == nil {
		return fmt.Errorf("specific_date is required for non-recurring slots")
	}
	return nil
}

// CoversInterval reports whether the slot contains [start, end]. A recurring
// slot matches on weekday, a one-off slot on the calendar date; the clock
// times of the interval must then fall inside the slot's window.
func (a *LawyerAvailability) CoversInterval(start, end time.Time) bool {
	if a.IsRecurring {
		if int(start.Weekday()) != a.DayOfWeek {
			return false
		}
	} else {
		if a.SpecificDate == nil {
			return false
		}
		sy, sm, sd := start.Date()
		dy, dm, dd := a.SpecificDate.Date()
		if sy != dy || sm != dm || sd != dd {
			return false
		}
	}

	slotStart, err := time.Parse(clockLayout, a.StartTime)
	if err != nil {
		return false
	}
	slotEnd, err := time.Parse(clockLayout, a.EndTime)
	if err != nil {
		return false
	}

	startMins := start.Hour()*60 + start.Minute()
	endMins := end.Hour()*60 + end.Minute()
	slotStartMins := slotStart.Hour()*60 + slotStart.Minute()
	slotEndMins := slotEnd.Hour()*60 + slotEnd.Minute()

	// Intervals crossing midnight are not bookable slots.
	if endMins < startMins {
		return false
	}
	return startMins >= slotStartMins && endMins <= slotEndMins
}
