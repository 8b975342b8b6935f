package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Owner is a third party whose vehicles are rented out through the fleet.
type Owner struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`
	Dni       string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"dni"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	Status    string    `gorm:"type:varchar(20);not null;default:'Activo'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Owner) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// CommercialAgent brings in rentals and earns a commission payable per deal.
type CommercialAgent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`
	Dni       string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"dni"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	Status    string    `gorm:"type:varchar(20);not null;default:'Activo'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *CommercialAgent) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
