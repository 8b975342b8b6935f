package service

import (
	"testing"
	"time"

	"sgflota/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Vehicle{},
		&model.Client{},
		&model.Rental{},
		&model.Invoice{},
		&model.Payment{},
		&model.Refund{},
		&model.AccountPayable{},
		&model.ExpenseCategory{},
		&model.Expense{},
		&model.Owner{},
		&model.CommercialAgent{},
		&model.BookingRequest{},
		&model.ContactMessage{},
	)
	require.NoError(t, err)

	return db
}

func createTestClient(t *testing.T, db *gorm.DB, name, dni string) model.Client {
	client := model.Client{Name: name, Dni: dni}
	require.NoError(t, db.Create(&client).Error)
	return client
}

func createTestVehicle(t *testing.T, db *gorm.DB, plate, ownership string) model.Vehicle {
	vehicle := model.Vehicle{
		Name:      "Toyota Corolla",
		Type:      "Sedán",
		DailyRate: decimal.NewFromInt(100),
		Status:    model.VehicleAvailable,
		Plate:     plate,
		Year:      2022,
		Ownership: ownership,
	}
	if ownership == model.OwnershipThirdParty {
		vehicle.OwnerName = "Carlos Ruiz"
		vehicle.OwnerDni = "87654321"
	}
	require.NoError(t, db.Create(&vehicle).Error)
	return vehicle
}

func createTestInvoice(t *testing.T, db *gorm.DB, client model.Client, number, amount string, date time.Time) model.Invoice {
	invoice := model.Invoice{
		InvoiceNumber: number,
		ClientID:      client.ID,
		Amount:        decimal.RequireFromString(amount),
		PaidAmount:    decimal.Zero,
		Date:          date,
		Status:        model.InvoicePending,
	}
	require.NoError(t, db.Create(&invoice).Error)
	return invoice
}
