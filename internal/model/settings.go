package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanySettings is a singleton row holding the company identity used on
// printed documents.
type CompanySettings struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`
	Logo      string    `gorm:"type:text" json:"logo"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	TaxID     string    `gorm:"type:varchar(50)" json:"tax_id"`
	Website   string    `gorm:"type:varchar(255)" json:"website"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *CompanySettings) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
