package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingRequestStatus enum constants
const (
	RequestPending  = "Pendiente"
	RequestAccepted = "Aceptado"
	RequestRejected = "Rechazado"
)

// ContactMessageStatus enum constants
const (
	MessagePending  = "Pendiente"
	MessageAttended = "Atendido"
)

// BookingRequest is an inquiry submitted from the public site: a prospect
// asks for a vehicle and period before any client record or rental exists.
// VehicleName is snapshotted because the fleet entry may change or go away.
type BookingRequest struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	VehicleID     *uuid.UUID `gorm:"type:uuid;index" json:"vehicle_id"`
	Vehicle       *Vehicle   `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	VehicleName   string     `gorm:"type:varchar(120)" json:"vehicle_name"`
	ClientName    string     `gorm:"type:varchar(120);not null" json:"client_name"`
	ClientEmail   string     `gorm:"type:varchar(255)" json:"client_email"`
	ClientPhone   string     `gorm:"type:varchar(30)" json:"client_phone"`
	ClientAddress string     `gorm:"type:text" json:"client_address"`
	StartDate     time.Time  `gorm:"not null" json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	// Services holds a JSON list of extras asked for (chofer, seguro, ...).
	Services  string    `gorm:"type:text" json:"services"`
	Status    string    `gorm:"type:varchar(20);not null;default:'Pendiente';index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BookingRequest) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Status    string    `gorm:"type:varchar(20);not null;default:'Pendiente';index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *ContactMessage) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
