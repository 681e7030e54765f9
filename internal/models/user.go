package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleParent = "parent"
)

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// Permissions holds per-user capability flags. Invited users default to
// read-only unless the inviter grants more.
type Permissions struct {
	CanCreate     bool `json:"can_create"`
	CanRead       bool `json:"can_read"`
	CanUpdate     bool `json:"can_update"`
	CanDelete     bool `json:"can_delete"`
	IsGlobalAdmin bool `json:"is_global_admin"`
}

// DefaultInvitePermissions returns the flags applied to a freshly invited user.
func DefaultInvitePermissions() Permissions {
	return Permissions{CanRead: true}
}

// User is a login-capable identity (admin or parent). ResetToken and
// ResetTokenExpiry are either both set or both nil; a pending user has no
// password until a valid invite token is consumed.
type User struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password         string      `gorm:"size:255" json:"-"`
	Name             string      `gorm:"size:255" json:"name"`
	PhoneNumber      string      `gorm:"size:32" json:"phone_number"`
	Role             string      `gorm:"size:20;not null" json:"role"`
	Status           string      `gorm:"size:20;not null;default:'active';index" json:"status"`
	Permissions      Permissions `gorm:"embedded;embeddedPrefix:perm_" json:"permissions"`
	ResetToken       *string     `gorm:"size:512" json:"-"`
	ResetTokenExpiry *time.Time  `json:"-"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// HasResetToken reports whether an outstanding reset or invite token is stored.
func (u *User) HasResetToken() bool {
	return u.ResetToken != nil && u.ResetTokenExpiry != nil
}
