package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values stored in users.role
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the three enumerated values.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleModerator || role == RoleAdmin
}

type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"` // stored lowercased
	Role      string    `gorm:"default:'user';not null" json:"role"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Superuser bool      `gorm:"column:is_superuser;default:false" json:"-"` // break-glass flag, orthogonal to role
	Confirmed bool      `gorm:"default:false" json:"-"`
	// StateVersion increments on every user-field mutation. Confirmation codes
	// are bound to the version current at issue time, so any later change
	// (including a successful token exchange) invalidates outstanding codes.
	StateVersion int64     `gorm:"default:0;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}
