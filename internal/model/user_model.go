package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleUser   = "user"
)

// User mirrors an identity from the hosted auth provider. ExternalID is the
// provider's subject; the role is owned by this service.
type User struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"external_id"`
	Email      string     `gorm:"type:varchar(255);index" json:"email"`
	Name       string     `gorm:"type:varchar(255)" json:"name"`
	Role       string     `gorm:"type:varchar(20);default:user" json:"role"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// IsStaff reports whether the user may write site content.
func (u *User) IsStaff() bool {
	return u.HasRole(RoleAdmin, RoleEditor)
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleUser:
		return true
	}
	return false
}
