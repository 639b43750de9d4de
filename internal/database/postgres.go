package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hospitalcore/hospital-api/internal/models"
)

// Open connects to postgres. TranslateError turns the driver's
// unique-violation into gorm.ErrDuplicatedKey so a signup race on the email
// index surfaces as a conflict, not a crash.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
}

// Migrate creates/updates the schema for all entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Patient{})
}
