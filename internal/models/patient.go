package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient is the 1:1 extension record for users with the PATIENT role.
// It is owned by its User and removed with it.
type Patient struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	DocumentNumber string     `gorm:"type:varchar(50)" json:"documentNumber"`
	BirthDate      *time.Time `json:"birthDate,omitempty"`
	Age            int        `json:"age"`
	Gender         string     `gorm:"type:varchar(20)" json:"gender"`
	Phone          string     `gorm:"type:varchar(30)" json:"phone"`
	Address        string     `gorm:"type:varchar(255)" json:"address"`
	CreatedAt      time.Time  `json:"-"`
	UpdatedAt      time.Time  `json:"-"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
