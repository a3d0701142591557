package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// Profile mirrors one identity from the external auth provider. The ID is
// the provider's subject, not an auto-generated key; a row is provisioned
// on first authenticated profile read.
type Profile struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	FullName  string         `json:"full_name"`
	Phone     string         `json:"phone"`
	AvatarURL string         `json:"avatar_url"`
	Role      UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
