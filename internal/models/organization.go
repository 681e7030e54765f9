package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a school tenant. Membership lives in the
// organization_users join table.
type Organization struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Location    string    `gorm:"size:255;not null" json:"location"`
	Pincode     string    `gorm:"size:16;not null" json:"pincode"`
	Country     string    `gorm:"size:8;not null;default:'IN'" json:"country"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:20;not null" json:"status"`
	CreatedBy   uuid.UUID `gorm:"type:uuid" json:"created_by"`
	UpdatedBy   uuid.UUID `gorm:"type:uuid" json:"updated_by"`
	Users       []User    `gorm:"many2many:organization_users" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
