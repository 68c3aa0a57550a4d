package utils

import (
	"time"

	"gorm.io/gorm"

	"github.com/lawbridge/consult-api/models"
)

// CheckWithinAvailability reports whether [start, end] falls inside one of
// the lawyer's published availability windows.
func CheckWithinAvailability(db *gorm.DB, lawyerID uint, start, end time.Time) (bool, error) {
	var slots []models.LawyerAvailability
	if err := db.Where("lawyer_id = ?", lawyerID).Find(&slots).Error; err != nil {
		return false, err
	}
	for _, slot := range slots {
		if slot.CoversInterval(start, end) {
			return true, nil
		}
	}
	return false, nil
}

// CheckNoConflict reports whether the lawyer has no scheduled appointment
// overlapping [start, end].
func CheckNoConflict(db *gorm.DB, lawyerID uint, start, end time.Time) (bool, error) {
	var count int64
	err := db.Model(&models.Appointment{}).
		Where("lawyer_id = ? AND status = ?", lawyerID, models.StatusScheduled).
		Where("start_time < ? AND end_time > ?", end, start).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
