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

func newRentalService(db *gorm.DB) RentalService {
	return NewRentalService(
		repository.NewRentalRepository(db),
		repository.NewVehicleRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewPayableRepository(db),
		repository.NewRefundRepository(db),
		repository.NewTransactionManager(db),
		db,
		nil,
	)
}

func TestRentalDays(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		end  time.Time
		want int
	}{
		{"same instant", start, 1},
		{"two hours", start.Add(2 * time.Hour), 1},
		{"exactly one day", start.Add(24 * time.Hour), 1},
		{"one day and one hour", start.Add(25 * time.Hour), 2},
		{"four days", start.Add(4 * 24 * time.Hour), 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, rentalDays(start, tc.end))
		})
	}
}

func TestCreateRental_GeneratesInvoiceAndPayables(t *testing.T) {
	db := newTestDB(t)
	svc := newRentalService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	vehicle := createTestVehicle(t, db, "P-123456", model.OwnershipThirdParty)

	resp, err := svc.CreateRental(ctx, CreateRentalRequest{
		VehicleID:       vehicle.ID.String(),
		ClientID:        client.ID.String(),
		StartDate:       "2026-01-01T00:00:00Z",
		EndDate:         "2026-01-05T00:00:00Z",
		DailyRate:       "100",
		CommercialAgent: "Juan Pérez",
	})
	require.NoError(t, err)

	// 4 days at 100 per day.
	assert.Equal(t, "400.00", resp.TotalAmount)
	assert.Equal(t, model.RentalActive, resp.Status)

	// Invoice carries VAT on top of the rental total.
	var invoice model.Invoice
	require.NoError(t, db.First(&invoice, "rental_id = ?", resp.ID).Error)
	assert.True(t, invoice.Amount.Equal(decimal.NewFromInt(460)), "got %s", invoice.Amount)
	assert.Equal(t, model.InvoicePending, invoice.Status)
	assert.Contains(t, invoice.InvoiceNumber, "FC-")

	// Owner gets 80%, agent 10%, both held until the invoice is paid.
	var payables []model.AccountPayable
	require.NoError(t, db.Order("type").Find(&payables).Error)
	require.Len(t, payables, 2)

	byType := map[string]model.AccountPayable{}
	for _, ap := range payables {
		byType[ap.Type] = ap
	}
	owner := byType[model.PayableOwner]
	assert.Equal(t, "Carlos Ruiz", owner.BeneficiaryName)
	assert.True(t, owner.Amount.Equal(decimal.NewFromInt(320)), "got %s", owner.Amount)
	assert.Equal(t, model.PayableHeld, owner.Status)

	agent := byType[model.PayableAgent]
	assert.Equal(t, "Juan Pérez", agent.BeneficiaryName)
	assert.True(t, agent.Amount.Equal(decimal.NewFromInt(40)), "got %s", agent.Amount)
	assert.Equal(t, model.PayableHeld, agent.Status)

	var reloadedVehicle model.Vehicle
	require.NoError(t, db.First(&reloadedVehicle, "id = ?", vehicle.ID).Error)
	assert.Equal(t, model.VehicleRented, reloadedVehicle.Status)
}

func TestCreateRental_OwnVehicleSkipsOwnerPayable(t *testing.T) {
	db := newTestDB(t)
	svc := newRentalService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	vehicle := createTestVehicle(t, db, "P-123456", model.OwnershipOwn)

	_, err := svc.CreateRental(ctx, CreateRentalRequest{
		VehicleID: vehicle.ID.String(),
		ClientID:  client.ID.String(),
		StartDate: "2026-01-01T00:00:00Z",
		EndDate:   "2026-01-03T00:00:00Z",
		DailyRate: "100",
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.AccountPayable{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRental_ResolvesAgentFromRegistry(t *testing.T) {
	db := newTestDB(t)
	svc := newRentalService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	vehicle := createTestVehicle(t, db, "P-123456", model.OwnershipOwn)

	agent := model.CommercialAgent{Name: "Ana Torres", Dni: "33333333", Status: "Activo"}
	require.NoError(t, db.Create(&agent).Error)

	_, err := svc.CreateRental(ctx, CreateRentalRequest{
		VehicleID:       vehicle.ID.String(),
		ClientID:        client.ID.String(),
		StartDate:       "2026-01-01T00:00:00Z",
		EndDate:         "2026-01-03T00:00:00Z",
		DailyRate:       "100",
		CommercialAgent: agent.ID.String(),
	})
	require.NoError(t, err)

	var ap model.AccountPayable
	require.NoError(t, db.First(&ap, "type = ?", model.PayableAgent).Error)
	assert.Equal(t, "Ana Torres", ap.BeneficiaryName)
	assert.Equal(t, "33333333", ap.BeneficiaryDni)
}

func TestCreateRental_RejectsUnavailableVehicle(t *testing.T) {
	db := newTestDB(t)
	svc := newRentalService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	vehicle := createTestVehicle(t, db, "P-123456", model.OwnershipOwn)
	require.NoError(t, db.Model(&model.Vehicle{}).Where("id = ?", vehicle.ID).
		Update("status", model.VehicleMaintenance).Error)

	_, err := svc.CreateRental(ctx, CreateRentalRequest{
		VehicleID: vehicle.ID.String(),
		ClientID:  client.ID.String(),
		StartDate: "2026-01-01T00:00:00Z",
		EndDate:   "2026-01-03T00:00:00Z",
		DailyRate: "100",
	})
	assert.ErrorContains(t, err, "not available")

	var count int64
	require.NoError(t, db.Model(&model.Rental{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFinalizeRental_ExtraDaysBilledOnSupplementaryInvoice(t *testing.T) {
	db := newTestDB(t)
	svc := newRentalService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	vehicle := createTestVehicle(t, db, "P-123456", model.OwnershipOwn)

	created, err := svc.CreateRental(ctx, CreateRentalRequest{
		VehicleID: vehicle.ID.String(),
		ClientID:  client.ID.String(),
		StartDate: "2026-01-01T00:00:00Z",
		EndDate:   "2026-01-05T00:00:00Z",
		DailyRate: "100",
	})
	require.NoError(t, err)

	// Returned two days late: 6 days instead of 4.
	result, err := svc.FinalizeRental(ctx, created.ID, FinalizeRentalRequest{
		EndDate: "2026-01-07T00:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, 6, result.ActualDays)
	assert.Equal(t, "600.00", result.ActualTotal)
	assert.Equal(t, "400.00", result.BilledAmount)
	assert.Equal(t, "200.00", result.Difference)
	assert.NotEmpty(t, result.ExtraInvoice)
	assert.False(t, result.RefundCreated)

	var extra model.Invoice
	require.NoError(t, db.First(&extra, "invoice_number = ?", result.ExtraInvoice).Error)
	assert.True(t, extra.Amount.Equal(decimal.NewFromInt(230)), "got %s", extra.Amount)
	assert.Nil(t, extra.RentalID)

	var rental model.Rental
	require.NoError(t, db.First(&rental, "id = ?", created.ID).Error)
	assert.Equal(t, model.RentalFinalized, rental.Status)
	assert.True(t, rental.TotalAmount.Equal(decimal.NewFromInt(600)))
	require.NotNil(t, rental.OriginalEndDate)

	var reloadedVehicle model.Vehicle
	require.NoError(t, db.First(&reloadedVehicle, "id = ?", vehicle.ID).Error)
	assert.Equal(t, model.VehicleAvailable, reloadedVehicle.Status)
}

func TestFinalizeRental_EarlyReturnCreatesRefundAndRepricesPayables(t *testing.T) {
	db := newTestDB(t)
	svc := newRentalService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	vehicle := createTestVehicle(t, db, "P-123456", model.OwnershipThirdParty)

	created, err := svc.CreateRental(ctx, CreateRentalRequest{
		VehicleID:       vehicle.ID.String(),
		ClientID:        client.ID.String(),
		StartDate:       "2026-01-01T00:00:00Z",
		EndDate:         "2026-01-05T00:00:00Z",
		DailyRate:       "100",
		CommercialAgent: "Juan Pérez",
	})
	require.NoError(t, err)

	// Returned two days early: 2 days instead of 4.
	result, err := svc.FinalizeRental(ctx, created.ID, FinalizeRentalRequest{
		EndDate: "2026-01-03T00:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.ActualDays)
	assert.Equal(t, "-200.00", result.Difference)
	assert.True(t, result.RefundCreated)
	assert.Empty(t, result.ExtraInvoice)

	var refund model.Refund
	require.NoError(t, db.First(&refund).Error)
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(230)), "got %s", refund.Amount)
	assert.Equal(t, "Devolución anticipada de vehículo", refund.Reason)
	assert.Equal(t, model.RefundPending, refund.Status)
	assert.Equal(t, client.ID, refund.ClientID)

	// Payables shrink to the settled total: owner 160, agent 20.
	var payables []model.AccountPayable
	require.NoError(t, db.Find(&payables).Error)
	require.Len(t, payables, 2)
	for _, ap := range payables {
		switch ap.Type {
		case model.PayableOwner:
			assert.True(t, ap.Amount.Equal(decimal.NewFromInt(160)), "got %s", ap.Amount)
		case model.PayableAgent:
			assert.True(t, ap.Amount.Equal(decimal.NewFromInt(20)), "got %s", ap.Amount)
		}
	}
}

func TestFinalizeRental_AlreadyFinalized(t *testing.T) {
	db := newTestDB(t)
	svc := newRentalService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	vehicle := createTestVehicle(t, db, "P-123456", model.OwnershipOwn)

	created, err := svc.CreateRental(ctx, CreateRentalRequest{
		VehicleID: vehicle.ID.String(),
		ClientID:  client.ID.String(),
		StartDate: "2026-01-01T00:00:00Z",
		EndDate:   "2026-01-05T00:00:00Z",
		DailyRate: "100",
	})
	require.NoError(t, err)

	_, err = svc.FinalizeRental(ctx, created.ID, FinalizeRentalRequest{EndDate: "2026-01-05T00:00:00Z"})
	require.NoError(t, err)

	_, err = svc.FinalizeRental(ctx, created.ID, FinalizeRentalRequest{EndDate: "2026-01-06T00:00:00Z"})
	assert.ErrorContains(t, err, "already finalized")
}

func TestDeleteRental_RefusedWhileInvoiced(t *testing.T) {
	db := newTestDB(t)
	svc := newRentalService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	vehicle := createTestVehicle(t, db, "P-123456", model.OwnershipOwn)

	created, err := svc.CreateRental(ctx, CreateRentalRequest{
		VehicleID: vehicle.ID.String(),
		ClientID:  client.ID.String(),
		StartDate: "2026-01-01T00:00:00Z",
		EndDate:   "2026-01-05T00:00:00Z",
		DailyRate: "100",
	})
	require.NoError(t, err)

	err = svc.DeleteRental(ctx, created.ID)
	assert.ErrorContains(t, err, "invoice attached")
}

func TestUpdateRental_TracksOriginalEndDate(t *testing.T) {
	db := newTestDB(t)
	svc := newRentalService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	vehicle := createTestVehicle(t, db, "P-123456", model.OwnershipOwn)

	created, err := svc.CreateRental(ctx, CreateRentalRequest{
		VehicleID: vehicle.ID.String(),
		ClientID:  client.ID.String(),
		StartDate: "2026-01-01T00:00:00Z",
		EndDate:   "2026-01-05T00:00:00Z",
		DailyRate: "100",
	})
	require.NoError(t, err)

	newEnd := "2026-01-08T00:00:00Z"
	updated, err := svc.UpdateRental(ctx, created.ID, UpdateRentalRequest{EndDate: &newEnd})
	require.NoError(t, err)

	assert.Equal(t, newEnd, updated.EndDate)
	assert.Equal(t, "2026-01-05T00:00:00Z", updated.OriginalEndDate)
}
