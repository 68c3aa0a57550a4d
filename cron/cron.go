package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/lawbridge/consult-api/db"
	"github.com/lawbridge/consult-api/models"
	"github.com/lawbridge/consult-api/utils"
)

// StartCronJobs initializes and starts the cron scheduler for appointment reminders
func StartCronJobs() {
	c := cron.New()
	// Run every minute to check for appointments in the next hour
	_, err := c.AddFunc("* * * * *", func() {
		if err := SendAppointmentReminders(db.DB, time.Now()); err != nil {
			log.Printf("Reminder sweep failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for appointment reminders")
}

// SendAppointmentReminders notifies both parties of consultations starting
// in roughly one hour. Each appointment is reminded at most once.
func SendAppointmentReminders(dbc *gorm.DB, now time.Time) error {
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	var appointments []models.Appointment
	err := dbc.Preload("Client").Preload("Lawyer").
		Where("status = ? AND reminder_sent = ? AND start_time BETWEEN ? AND ?",
			models.StatusScheduled, false, startWindow, endWindow).
		Find(&appointments).Error
	if err != nil {
		return err
	}

	for _, appointment := range appointments {
		if err := remindAppointment(dbc, &appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d", appointment.ID)
	}
	return nil
}

func remindAppointment(dbc *gorm.DB, appointment *models.Appointment) error {
	payload := fmt.Sprintf(`{"appointment_id":%d}`, appointment.ID)
	message := fmt.Sprintf("Your consultation starts at %s.", appointment.StartTime.Format("15:04"))

	err := dbc.Transaction(func(tx *gorm.DB) error {
		notifications := []models.Notification{
			{
				UserID:  appointment.ClientID,
				Type:    models.NotificationAppointmentReminder,
				Title:   "Upcoming consultation",
				Message: message,
				Data:    payload,
			},
			{
				UserID:  appointment.LawyerID,
				Type:    models.NotificationAppointmentReminder,
				Title:   "Upcoming consultation",
				Message: message,
				Data:    payload,
			},
		}
		if err := tx.Create(&notifications).Error; err != nil {
			return err
		}
		return tx.Model(appointment).Update("reminder_sent", true).Error
	})
	if err != nil {
		return err
	}

	// Email is best effort; the notification row already committed.
	sendReminderEmail(appointment)
	return nil
}

func sendReminderEmail(appointment *models.Appointment) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your consultation scheduled in one hour.</p>
		<ul>
			<li><strong>Lawyer:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>End Time:</strong> %s</li>
		</ul>
		<p>Best regards,</p>
		<p>The LawBridge Team</p>
	`, appointment.Client.FullName(), appointment.Lawyer.FullName(),
		appointment.StartTime.Format("2006-01-02 15:04:05"),
		appointment.EndTime.Format("2006-01-02 15:04:05"))

	if err := utils.SendEmail(appointment.Client.Email, "Reminder: Upcoming Consultation", body); err != nil {
		log.Printf("Failed to email reminder for appointment %d: %v", appointment.ID, err)
	}
}
