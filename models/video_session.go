package models

import (
	"fmt"

	"gorm.io/gorm"
)

type VideoProvider string

const (
	ProviderZoom   VideoProvider = "zoom"
	ProviderTwilio VideoProvider = "twilio"
)

type VideoSessionStatus string

const (
	VideoSessionCreated VideoSessionStatus = "created"
	VideoSessionStarted VideoSessionStatus = "started"
	VideoSessionEnded   VideoSessionStatus = "ended"
	VideoSessionFailed  VideoSessionStatus = "failed"
)

// VideoSession is the room record backing a consultation. One session per
// appointment; the lawyer creates it, both parties join it.
type VideoSession struct {
	gorm.Model
	AppointmentID uint               `json:"appointment_id" gorm:"not null;uniqueIndex"`
	Appointment   Appointment        `json:"appointment,omitempty" gorm:"foreignKey:AppointmentID"`
	Provider      VideoProvider      `json:"provider" gorm:"type:varchar(20);default:'zoom'"`
	MeetingID     string             `json:"meeting_id"`
	RoomName      string             `json:"room_name"`
	JoinURL       string             `json:"join_url"`
	Status        VideoSessionStatus `json:"status" gorm:"type:varchar(20);default:'created'"`
}

// ValidateSessionTransition enforces the room lifecycle: created may start or
// fail, started may end or fail, ended and failed are terminal.
func ValidateSessionTransition(from, to VideoSessionStatus) error {
	switch from {
	case VideoSessionCreated:
		if to != VideoSessionStarted && to != VideoSessionFailed {
			return fmt.Errorf("invalid transition from created to %s", to)
		}
	case VideoSessionStarted:
		if to != VideoSessionEnded && to != VideoSessionFailed {
			return fmt.Errorf("invalid transition from started to %s", to)
		}
	case VideoSessionEnded, VideoSessionFailed:
		return fmt.Errorf("no transitions allowed from %s", from)
	default:
		return fmt.Errorf("unknown status %s", from)
	}
	return nil
}

func (v *VideoSession) UpdateStatus(tx *gorm.DB, newStatus VideoSessionStatus) error {
	if err := ValidateSessionTransition(v.Status, newStatus); err != nil {
		return err
	}
	v.Status = newStatus
	return tx.Save(v).Error
}
