package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of account roles. Unrecognized values are rejected
// at the HTTP boundary, never deep in query construction.
type Role string

const (
	RolePatient       Role = "PATIENT"
	RoleDoctor        Role = "DOCTOR"
	RoleNurse         Role = "NURSE"
	RoleAdministrator Role = "ADMINISTRATOR"
)

// ParseRole uppercases and validates a role string.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RolePatient, RoleDoctor, RoleNurse, RoleAdministrator:
		return r, true
	}
	return "", false
}

// Roles lists every valid role, for validation messages.
func Roles() []Role {
	return []Role{RolePatient, RoleDoctor, RoleNurse, RoleAdministrator}
}

// Status is the account lifecycle state.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// ParseStatus uppercases and validates a status string.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusActive, StatusInactive:
		return st, true
	}
	return "", false
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:current_password;type:text;not null" json:"-"` // Hide from JSON responses
	FullName  string    `gorm:"column:fullname;type:varchar(255);not null" json:"fullname"`
	Role      Role      `gorm:"type:varchar(20);not null;default:PATIENT" json:"role"`
	Status    Status    `gorm:"type:varchar(10);not null;default:PENDING" json:"status"`
	Specialty *string   `gorm:"type:varchar(100)" json:"specialty,omitempty"` // DOCTOR only

	// Single active verification challenge; cleared once the account is ACTIVE.
	VerificationCode        *string    `gorm:"type:varchar(10)" json:"-"`
	VerificationCodeExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Patient *Patient `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"patient,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the uuid in code so the model behaves the same on
// postgres and the in-memory test database.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
