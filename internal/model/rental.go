package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RentalStatus enum constants
const (
	RentalActive    = "Activo"
	RentalFinalized = "Finalizado"
)

// Rental represents one vehicle lease. TotalAmount is always days × DailyRate
// and is recomputed when the rental is finalized with a different end date.
type Rental struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	VehicleID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	Vehicle         *Vehicle        `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	ClientID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	Client          *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	StartDate       time.Time       `gorm:"not null" json:"start_date"`
	EndDate         time.Time       `gorm:"not null" json:"end_date"`
	OriginalEndDate *time.Time      `json:"original_end_date"`
	DailyRate       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"daily_rate"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_amount"`
	Status          string          `gorm:"type:varchar(20);not null;default:'Activo';index" json:"status"`
	// Loose reference: agent id or plain name, resolved against the agent
	// registry when accounts payable are generated.
	CommercialAgent string    `gorm:"type:varchar(120)" json:"commercial_agent"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (r *Rental) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
