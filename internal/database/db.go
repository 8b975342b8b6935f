package database

import (
	"log"

	"sgflota/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.Vehicle{},
		&model.Client{},
		&model.Rental{},
		&model.Invoice{},
		&model.Payment{},
		&model.Refund{},
		&model.AccountPayable{},
		&model.ExpenseCategory{},
		&model.Expense{},
		&model.Maintenance{},
		&model.Personnel{},
		&model.DriverPayment{},
		&model.Payroll{},
		&model.Owner{},
		&model.CommercialAgent{},
		&model.CompanySettings{},
		&model.BookingRequest{},
		&model.ContactMessage{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
