package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayableType enum constants
const (
	PayableOwner = "Propietario"
	PayableAgent = "Comercial"
)

// PayableStatus enum constants. Retenido payables are held until the
// rental's invoice is fully paid, then released to Pendiente.
const (
	PayablePending = "Pendiente"
	PayablePaid    = "Pagado"
	PayableHeld    = "Retenido"
)

// AccountPayable is money owed to a third party for a rental: 80% of the
// rental total to the vehicle owner, 10% to the commercial agent.
type AccountPayable struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RentalID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"rental_id"`
	Rental          *Rental         `gorm:"foreignKey:RentalID" json:"rental,omitempty"`
	Type            string          `gorm:"type:varchar(20);not null" json:"type"`
	BeneficiaryName string          `gorm:"type:varchar(120);not null" json:"beneficiary_name"`
	BeneficiaryDni  string          `gorm:"type:varchar(30)" json:"beneficiary_dni"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Date            time.Time       `gorm:"not null" json:"date"`
	Status          string          `gorm:"type:varchar(20);not null;default:'Retenido';index" json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (a *AccountPayable) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
