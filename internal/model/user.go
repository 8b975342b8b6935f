package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole enum constants. Admin has full access, Registrar can write
// operational data but not nomenclators or deletions, User is read-only.
const (
	UserRoleAdmin     = "Admin"
	UserRoleRegistrar = "Registrar"
	UserRoleReader    = "User"
)

// UserStatus enum constants
const (
	UserActive   = "Active"
	UserInactive = "Inactive"
)

// User is an application account.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(120);not null" json:"name"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"`
	Role      string         `gorm:"type:varchar(20);not null" json:"role"`
	Status    string         `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	Avatar    string         `gorm:"type:text" json:"avatar"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
