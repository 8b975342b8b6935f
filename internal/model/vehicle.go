package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VehicleStatus enum constants
const (
	VehicleAvailable   = "Disponible"
	VehicleRented      = "Rentado"
	VehicleMaintenance = "Mantenimiento"
)

// Ownership enum constants
const (
	OwnershipOwn        = "Propia"
	OwnershipThirdParty = "Tercero"
)

// Vehicle represents a rentable unit of the fleet. Third-party vehicles
// carry their owner's data so accounts payable can be generated per rental.
type Vehicle struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(120);not null" json:"name"`
	Type      string          `gorm:"type:varchar(50);not null" json:"type"`
	Segment   string          `gorm:"type:varchar(50)" json:"segment"` // market range: Económico, Estándar, Premium
	DailyRate decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"daily_rate"`
	Image     string          `gorm:"type:text" json:"image"`
	Status    string          `gorm:"type:varchar(20);not null;default:'Disponible';index" json:"status"`
	Plate     string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"plate"`
	Year      int             `gorm:"not null" json:"year"`
	Ownership string          `gorm:"type:varchar(20);not null;default:'Propia'" json:"ownership"`
	OwnerName string          `gorm:"type:varchar(120)" json:"owner_name"`
	OwnerDni  string          `gorm:"type:varchar(30)" json:"owner_dni"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (v *Vehicle) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
