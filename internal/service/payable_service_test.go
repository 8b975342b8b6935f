package service

import (
	"context"
	"testing"
	"time"

	"sgflota/internal/model"
	"sgflota/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPayableService(db *gorm.DB) PayableService {
	return NewPayableService(
		repository.NewPayableRepository(db),
		repository.NewExpenseRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)
}

func createTestPayable(t *testing.T, db *gorm.DB, status string) model.AccountPayable {
	client := createTestClient(t, db, "María López", "99"+status)
	vehicle := createTestVehicle(t, db, "P-"+status, model.OwnershipThirdParty)
	rental := model.Rental{
		VehicleID:   vehicle.ID,
		ClientID:    client.ID,
		StartDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		DailyRate:   decimal.NewFromInt(100),
		TotalAmount: decimal.NewFromInt(400),
		Status:      model.RentalActive,
	}
	require.NoError(t, db.Create(&rental).Error)

	ap := model.AccountPayable{
		RentalID:        rental.ID,
		Type:            model.PayableOwner,
		BeneficiaryName: "Carlos Ruiz",
		BeneficiaryDni:  "87654321",
		Amount:          decimal.NewFromInt(320),
		Date:            time.Now(),
		Status:          status,
	}
	require.NoError(t, db.Create(&ap).Error)
	return ap
}

func TestPayPayable_BooksThirdPartyExpense(t *testing.T) {
	db := newTestDB(t)
	svc := newPayableService(db)
	ctx := context.Background()

	ap := createTestPayable(t, db, model.PayablePending)

	paid, err := svc.PayPayable(ctx, ap.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.PayablePaid, paid.Status)

	var expense model.Expense
	require.NoError(t, db.Preload("Category").First(&expense).Error)
	assert.True(t, expense.Amount.Equal(decimal.NewFromInt(320)))
	assert.Equal(t, model.ExpensePaid, expense.Status)
	assert.Contains(t, expense.Description, "Carlos Ruiz")
	require.NotNil(t, expense.Category)
	assert.Equal(t, model.CategoryThirdParty, expense.Category.Name)
}

func TestPayPayable_HeldIsRefused(t *testing.T) {
	db := newTestDB(t)
	svc := newPayableService(db)
	ctx := context.Background()

	ap := createTestPayable(t, db, model.PayableHeld)

	_, err := svc.PayPayable(ctx, ap.ID.String())
	assert.ErrorContains(t, err, "held")

	var reloaded model.AccountPayable
	require.NoError(t, db.First(&reloaded, "id = ?", ap.ID).Error)
	assert.Equal(t, model.PayableHeld, reloaded.Status)

	var count int64
	require.NoError(t, db.Model(&model.Expense{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPayPayable_AlreadyPaidIsRefused(t *testing.T) {
	db := newTestDB(t)
	svc := newPayableService(db)
	ctx := context.Background()

	ap := createTestPayable(t, db, model.PayablePaid)

	_, err := svc.PayPayable(ctx, ap.ID.String())
	assert.ErrorContains(t, err, "already paid")
}

func TestListPayables_FiltersByStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newPayableService(db)
	ctx := context.Background()

	createTestPayable(t, db, model.PayableHeld)
	createTestPayable(t, db, model.PayablePending)

	held, total, err := svc.ListPayables(ctx, model.PayableHeld, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, held, 1)
	assert.Equal(t, model.PayableHeld, held[0].Status)

	all, total, err := svc.ListPayables(ctx, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)
}
