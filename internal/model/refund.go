package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RefundStatus enum constants
const (
	RefundPending  = "Pendiente"
	RefundRefunded = "Reembolsado"
)

// Refund represents money owed back to a client against an invoice,
// typically from an early vehicle return. Settling one creates an expense.
type Refund struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RefundNumber string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"refund_number"`
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Invoice      *Invoice        `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	ClientID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	Client       *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Date         time.Time       `gorm:"not null" json:"date"`
	Reason       string          `gorm:"type:text" json:"reason"`
	Status       string          `gorm:"type:varchar(20);not null;default:'Pendiente';index" json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (r *Refund) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
