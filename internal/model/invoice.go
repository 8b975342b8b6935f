package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceStatus enum constants
const (
	InvoicePending = "Pendiente"
	InvoicePartial = "Parcial"
	InvoicePaid    = "Pagado"
)

// Invoice is a billable record for a client. PaidAmount accumulates applied
// payments; Status is derived from PaidAmount vs Amount and is never set
// independently (see DeriveInvoiceStatus).
type Invoice struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNumber string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_number"`
	RentalID      *uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"rental_id"`
	Rental        *Rental         `gorm:"foreignKey:RentalID" json:"rental,omitempty"`
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	Client        *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"paid_amount"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	Status        string          `gorm:"type:varchar(20);not null;default:'Pendiente';index" json:"status"`
	// Details holds a JSON snapshot of the billed rental period or manual
	// line items, consumed verbatim by the receipt formatter.
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Invoice) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Pending returns the outstanding balance of the invoice.
func (i *Invoice) Pending() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount)
}

// DeriveInvoiceStatus is the single source of truth for invoice status:
// Pagado when paid covers the amount, Parcial when something but not all is
// paid, Pendiente otherwise.
func DeriveInvoiceStatus(amount, paid decimal.Decimal) string {
	switch {
	case paid.GreaterThanOrEqual(amount):
		return InvoicePaid
	case paid.IsPositive():
		return InvoicePartial
	default:
		return InvoicePending
	}
}
