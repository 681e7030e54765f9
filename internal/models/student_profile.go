package models

import (
	"time"

	"github.com/google/uuid"
)

// StudentProfile links a student to a parent user within an organization.
type StudentProfile struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	FullName        string       `gorm:"size:255;not null" json:"full_name"`
	Address         string       `gorm:"size:512;not null" json:"address"`
	City            string       `gorm:"size:128;not null" json:"city"`
	State           string       `gorm:"size:128;not null" json:"state"`
	Country         string       `gorm:"size:8;not null;default:'IN'" json:"country"`
	Pincode         string       `gorm:"size:16;not null" json:"pincode"`
	DateOfBirth     string       `gorm:"size:32;not null" json:"date_of_birth"`
	Division        string       `gorm:"size:64" json:"division"`
	ClassID         string       `gorm:"size:64" json:"class_id"`
	RollNumber      string       `gorm:"size:64" json:"roll_number"`
	AdmissionNumber string       `gorm:"size:64" json:"admission_number"`
	AdmissionDate   string       `gorm:"size:32" json:"admission_date"`
	RegistrationID  string       `gorm:"size:64" json:"registration_id"`
	ParentID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"parent_id"`
	OrganizationID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"organization_id"`
	Status          string       `gorm:"size:20;not null;default:'active';index" json:"status"`
	Parent          User         `gorm:"foreignKey:ParentID" json:"-"`
	Organization    Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
