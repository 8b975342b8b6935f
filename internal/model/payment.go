package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentMethod enum constants
const (
	MethodCash     = "Efectivo"
	MethodTransfer = "Transferencia"
	MethodCard     = "Tarjeta"
	MethodCheck    = "Cheque"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	return m == MethodCash || m == MethodTransfer || m == MethodCard || m == MethodCheck
}

// Payment is an immutable record of money applied to one invoice. Payments
// created in the same settlement share a ReceiptID and Date so the receipt
// formatter can reprint them as one document.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ReceiptID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"receipt_id"`
	PaymentNumber string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"payment_number"`
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	Client        *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Invoice       *Invoice        `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Date          time.Time       `gorm:"not null" json:"date"`
	Method        string          `gorm:"type:varchar(30);not null" json:"method"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
