package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PersonnelRole enum constants
const (
	RoleDriver   = "Conductor"
	RoleAdmin    = "Administrativo"
	RoleMechanic = "Mecánico"
	RoleOther    = "Otro"
)

// ActiveStatus enum constants shared by personnel, owners and agents.
const (
	StatusActive   = "Activo"
	StatusInactive = "Inactivo"
)

// PayrollStatus enum constants
const (
	PayrollDraft = "Borrador"
	PayrollPaid  = "Pagado"
)

// Personnel is a staff member (driver, mechanic, administrative).
type Personnel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string          `gorm:"type:varchar(120);not null" json:"name"`
	Dni           string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"dni"`
	Phone         string          `gorm:"type:varchar(30)" json:"phone"`
	Email         string          `gorm:"type:varchar(255)" json:"email"`
	Role          string          `gorm:"type:varchar(30);not null" json:"role"`
	LicenseNumber string          `gorm:"type:varchar(50)" json:"license_number"`
	Salary        decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"salary"`
	Status        string          `gorm:"type:varchar(20);not null;default:'Activo'" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p *Personnel) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DriverPayment is an ad-hoc payment to a staff member outside payroll.
type DriverPayment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PersonnelID uuid.UUID       `gorm:"type:uuid;not null;index" json:"personnel_id"`
	Personnel   *Personnel      `gorm:"foreignKey:PersonnelID" json:"personnel,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Concept     string          `gorm:"type:varchar(255);not null" json:"concept"`
	Notes       string          `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (d *DriverPayment) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Payroll is a monthly salary run snapshot. Details holds the per-person
// breakdown as JSON, frozen at the time the run was made.
type Payroll struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Month       int             `gorm:"not null" json:"month"`
	Year        int             `gorm:"not null" json:"year"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	Status      string          `gorm:"type:varchar(20);not null;default:'Pagado'" json:"status"`
	Details     string          `gorm:"type:text" json:"details"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (p *Payroll) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
