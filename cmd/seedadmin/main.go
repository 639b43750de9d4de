package main

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/hospitalcore/hospital-api/internal/config"
	"github.com/hospitalcore/hospital-api/internal/database"
	"github.com/hospitalcore/hospital-api/internal/models"
	"github.com/hospitalcore/hospital-api/internal/utils"
)

const (
	adminEmail    = "admin@hospital.com"
	adminPassword = "Admin123"
	adminFullname = "Primary Administrator"
)

// Seeds the initial administrator account. Safe to run repeatedly.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var existing models.User
	err = db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		log.Printf("Administrator already exists: %s (%s)", existing.Email, existing.FullName)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check for existing administrator: %v", err)
	}

	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := models.User{
		Email:    adminEmail,
		Password: hashed,
		FullName: adminFullname,
		Role:     models.RoleAdministrator,
		Status:   models.StatusActive, // already verified, no challenge needed
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create administrator: %v", err)
	}

	log.Println("Administrator created successfully.")
	log.Printf("Email:    %s", adminEmail)
	log.Printf("Password: %s", adminPassword)
	log.Println("IMPORTANT: change this password after the first login.")
}
