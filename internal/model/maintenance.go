package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaintenanceStatus enum constants
const (
	MaintenanceScheduled  = "Programado"
	MaintenanceInProgress = "En Proceso"
	MaintenanceCompleted  = "Completado"
)

// Maintenance is a scheduled or completed service job on a vehicle. An open
// job keeps the vehicle in Mantenimiento status.
type Maintenance struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	VehicleID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	Vehicle     *Vehicle        `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Cost        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"cost"`
	Status      string          `gorm:"type:varchar(20);not null;default:'Programado';index" json:"status"`
	Type        string          `gorm:"type:varchar(50)" json:"type"` // Preventivo, Correctivo
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (m *Maintenance) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
