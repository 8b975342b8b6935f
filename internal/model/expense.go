package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryType enum constants
const (
	CategoryExpense = "Gasto"
	CategoryIncome  = "Ingreso"
)

// ExpenseStatus enum constants
const (
	ExpensePending = "Pendiente"
	ExpensePaid    = "Pagado"
)

// Categories auto-provisioned by the refund and payable flows.
const (
	CategoryRefunds    = "Reembolsos"
	CategoryThirdParty = "Pagos a Terceros"
)

// ExpenseCategory classifies expenses (nomenclator, Admin-managed).
type ExpenseCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"type:varchar(20);not null;default:'Gasto'" json:"type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *ExpenseCategory) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Expense records an operational cost. Some are entered manually, others are
// generated when refunds are settled or payables are paid.
type Expense struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Date        time.Time        `gorm:"not null;index" json:"date"`
	Amount      decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"amount"`
	Description string           `gorm:"type:text;not null" json:"description"`
	CategoryID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	Category    *ExpenseCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	InvoiceID   *uuid.UUID       `gorm:"type:uuid" json:"invoice_id"`
	Status      string           `gorm:"type:varchar(20);not null;default:'Pendiente'" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (e *Expense) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
