package db

import (
	"fmt"
	"log"

	"github.com/lawbridge/consult-api/models"
)

func Migrate() {
	// Initialize DB connection
	Init()

	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.User{},
		&models.Appointment{},
		&models.LawyerAvailability{},
		&models.Notification{},
		&models.Message{},
		&models.VideoSession{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
