package service

import (
	"context"
	"testing"
	"time"

	"sgflota/internal/model"
	"sgflota/internal/repository"
	"sgflota/pkg/docnumber"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBillingService(db *gorm.DB) BillingService {
	return NewBillingService(
		repository.NewInvoiceRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewPayableRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)
}

func TestRecordPayment_SettlesOldestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newBillingService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	older := createTestInvoice(t, db, client, "FC-001/26", "800", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	newer := createTestInvoice(t, db, client, "FC-002/26", "400", time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC))

	receipt, err := svc.RecordPayment(ctx, RecordPaymentRequest{
		ClientID:   client.ID.String(),
		InvoiceIDs: []string{newer.ID.String(), older.ID.String()},
		Amount:     "1200",
		Method:     model.MethodCash,
	})
	require.NoError(t, err)

	assert.Equal(t, "1200.00", receipt.Applied)
	assert.Equal(t, "0.00", receipt.Surplus)
	require.Len(t, receipt.Allocations, 2)
	assert.Equal(t, "FC-001/26", receipt.Allocations[0].InvoiceNumber)
	assert.Equal(t, "800.00", receipt.Allocations[0].Amount)
	assert.Equal(t, "FC-002/26", receipt.Allocations[1].InvoiceNumber)
	assert.Equal(t, "400.00", receipt.Allocations[1].Amount)

	var reloaded model.Invoice
	require.NoError(t, db.First(&reloaded, "id = ?", older.ID).Error)
	assert.Equal(t, model.InvoicePaid, reloaded.Status)
	assert.True(t, reloaded.PaidAmount.Equal(reloaded.Amount))

	// Reset so the previous row's primary key is not added as a condition.
	reloaded = model.Invoice{}
	require.NoError(t, db.First(&reloaded, "id = ?", newer.ID).Error)
	assert.Equal(t, model.InvoicePaid, reloaded.Status)

	// One payment row per touched invoice, sequentially numbered.
	var payments []model.Payment
	require.NoError(t, db.Order("payment_number").Find(&payments).Error)
	require.Len(t, payments, 2)
	suffix := docnumber.Suffix(time.Now().Year())
	assert.Equal(t, "P-001"+suffix, payments[0].PaymentNumber)
	assert.Equal(t, "P-002"+suffix, payments[1].PaymentNumber)
	assert.Equal(t, payments[0].ReceiptID, payments[1].ReceiptID)
	assert.True(t, payments[0].Date.Equal(payments[1].Date))
}

func TestRecordPayment_FailsWhenInvoiceChangesUnderneath(t *testing.T) {
	db := newTestDB(t)
	svc := newBillingService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	invoice := createTestInvoice(t, db, client, "FC-001/26", "1000", time.Now())

	// Settle part of the invoice after the allocation is computed but
	// before its row is rewritten, like a second writer would.
	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("test:concurrent_writer", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*model.Payment); ok && !raced {
			raced = true
			tx.Session(&gorm.Session{NewDB: true}).Model(&model.Invoice{}).
				Where("id = ?", invoice.ID).
				Update("paid_amount", decimal.NewFromInt(700))
		}
	})
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, RecordPaymentRequest{
		ClientID:   client.ID.String(),
		InvoiceIDs: []string{invoice.ID.String()},
		Amount:     "1000",
		Method:     model.MethodCash,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "changed while recording")

	// The whole batch rolled back.
	var count int64
	require.NoError(t, db.Model(&model.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.True(t, raced)
}

func TestRecordPayment_PartialLeavesInvoiceParcial(t *testing.T) {
	db := newTestDB(t)
	svc := newBillingService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	invoice := createTestInvoice(t, db, client, "FC-001/26", "1000", time.Now())

	_, err := svc.RecordPayment(ctx, RecordPaymentRequest{
		ClientID:   client.ID.String(),
		InvoiceIDs: []string{invoice.ID.String()},
		Amount:     "400",
		Method:     model.MethodTransfer,
	})
	require.NoError(t, err)

	var reloaded model.Invoice
	require.NoError(t, db.First(&reloaded, "id = ?", invoice.ID).Error)
	assert.Equal(t, model.InvoicePartial, reloaded.Status)
	assert.Equal(t, "400", reloaded.PaidAmount.String())

	// A second partial payment completes the invoice.
	_, err = svc.RecordPayment(ctx, RecordPaymentRequest{
		ClientID:   client.ID.String(),
		InvoiceIDs: []string{invoice.ID.String()},
		Amount:     "600",
		Method:     model.MethodCash,
	})
	require.NoError(t, err)

	require.NoError(t, db.First(&reloaded, "id = ?", invoice.ID).Error)
	assert.Equal(t, model.InvoicePaid, reloaded.Status)
}

func TestRecordPayment_OverpaymentReportsSurplus(t *testing.T) {
	db := newTestDB(t)
	svc := newBillingService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	invoice := createTestInvoice(t, db, client, "FC-001/26", "800", time.Now())

	receipt, err := svc.RecordPayment(ctx, RecordPaymentRequest{
		ClientID:   client.ID.String(),
		InvoiceIDs: []string{invoice.ID.String()},
		Amount:     "2000",
		Method:     model.MethodCash,
	})
	require.NoError(t, err)

	assert.Equal(t, "800.00", receipt.Applied)
	assert.Equal(t, "1200.00", receipt.Surplus)

	// The invoice never absorbs more than its amount.
	var reloaded model.Invoice
	require.NoError(t, db.First(&reloaded, "id = ?", invoice.ID).Error)
	assert.True(t, reloaded.PaidAmount.Equal(reloaded.Amount))
	assert.Equal(t, model.InvoicePaid, reloaded.Status)
}

func TestRecordPayment_Rejections(t *testing.T) {
	db := newTestDB(t)
	svc := newBillingService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	other := createTestClient(t, db, "Pedro Gómez", "22222222")
	invoice := createTestInvoice(t, db, client, "FC-001/26", "500", time.Now())

	t.Run("unknown invoice", func(t *testing.T) {
		_, err := svc.RecordPayment(ctx, RecordPaymentRequest{
			ClientID:   client.ID.String(),
			InvoiceIDs: []string{uuid.NewString()},
			Amount:     "100",
			Method:     model.MethodCash,
		})
		assert.ErrorContains(t, err, "do not exist")
	})

	t.Run("invoice of another client", func(t *testing.T) {
		_, err := svc.RecordPayment(ctx, RecordPaymentRequest{
			ClientID:   other.ID.String(),
			InvoiceIDs: []string{invoice.ID.String()},
			Amount:     "100",
			Method:     model.MethodCash,
		})
		assert.ErrorContains(t, err, "does not belong")
	})

	t.Run("invalid method", func(t *testing.T) {
		_, err := svc.RecordPayment(ctx, RecordPaymentRequest{
			ClientID:   client.ID.String(),
			InvoiceIDs: []string{invoice.ID.String()},
			Amount:     "100",
			Method:     "Bitcoin",
		})
		assert.ErrorContains(t, err, "invalid payment method")
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := svc.RecordPayment(ctx, RecordPaymentRequest{
			ClientID:   client.ID.String(),
			InvoiceIDs: []string{invoice.ID.String()},
			Amount:     "0",
			Method:     model.MethodCash,
		})
		assert.ErrorContains(t, err, "must be positive")
	})

	t.Run("fully settled selection", func(t *testing.T) {
		require.NoError(t, db.Model(&model.Invoice{}).Where("id = ?", invoice.ID).
			Updates(map[string]interface{}{"paid_amount": "500", "status": model.InvoicePaid}).Error)

		_, err := svc.RecordPayment(ctx, RecordPaymentRequest{
			ClientID:   client.ID.String(),
			InvoiceIDs: []string{invoice.ID.String()},
			Amount:     "100",
			Method:     model.MethodCash,
		})
		assert.ErrorContains(t, err, "no outstanding balance")
	})

	// None of the rejected attempts may leave payment rows behind.
	var count int64
	require.NoError(t, db.Model(&model.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecordPayment_ReleasesHeldPayables(t *testing.T) {
	db := newTestDB(t)
	svc := newBillingService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	vehicle := createTestVehicle(t, db, "P-123456", model.OwnershipThirdParty)

	rental := model.Rental{
		VehicleID:   vehicle.ID,
		ClientID:    client.ID,
		StartDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		DailyRate:   vehicle.DailyRate,
		TotalAmount: decimal.NewFromInt(400),
		Status:      model.RentalActive,
	}
	require.NoError(t, db.Create(&rental).Error)

	invoice := model.Invoice{
		InvoiceNumber: "FC-001/26",
		RentalID:      &rental.ID,
		ClientID:      client.ID,
		Amount:        decimal.NewFromInt(460),
		Date:          time.Now(),
		Status:        model.InvoicePending,
	}
	require.NoError(t, db.Create(&invoice).Error)

	payable := model.AccountPayable{
		RentalID:        rental.ID,
		Type:            model.PayableOwner,
		BeneficiaryName: vehicle.OwnerName,
		Amount:          decimal.NewFromInt(320),
		Date:            time.Now(),
		Status:          model.PayableHeld,
	}
	require.NoError(t, db.Create(&payable).Error)

	_, err := svc.RecordPayment(ctx, RecordPaymentRequest{
		ClientID:   client.ID.String(),
		InvoiceIDs: []string{invoice.ID.String()},
		Amount:     "460",
		Method:     model.MethodTransfer,
	})
	require.NoError(t, err)

	var reloaded model.AccountPayable
	require.NoError(t, db.First(&reloaded, "id = ?", payable.ID).Error)
	assert.Equal(t, model.PayablePending, reloaded.Status)
}

func TestDeletePayment_RevertsInvoice(t *testing.T) {
	db := newTestDB(t)
	svc := newBillingService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	invoice := createTestInvoice(t, db, client, "FC-001/26", "1000", time.Now())

	_, err := svc.RecordPayment(ctx, RecordPaymentRequest{
		ClientID:   client.ID.String(),
		InvoiceIDs: []string{invoice.ID.String()},
		Amount:     "1000",
		Method:     model.MethodCash,
	})
	require.NoError(t, err)

	var payment model.Payment
	require.NoError(t, db.First(&payment).Error)

	require.NoError(t, svc.DeletePayment(ctx, payment.ID.String()))

	var reloaded model.Invoice
	require.NoError(t, db.First(&reloaded, "id = ?", invoice.ID).Error)
	assert.Equal(t, model.InvoicePending, reloaded.Status)
	assert.True(t, reloaded.PaidAmount.IsZero())

	var count int64
	require.NoError(t, db.Model(&model.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPreviewAllocation_DoesNotPersist(t *testing.T) {
	db := newTestDB(t)
	svc := newBillingService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	invoice := createTestInvoice(t, db, client, "FC-001/26", "800", time.Now())

	preview, err := svc.PreviewAllocation(ctx, PreviewAllocationRequest{
		ClientID:   client.ID.String(),
		InvoiceIDs: []string{invoice.ID.String()},
		Amount:     "1000",
	})
	require.NoError(t, err)
	assert.Equal(t, "800.00", preview.Applied)
	assert.Equal(t, "200.00", preview.Surplus)

	var reloaded model.Invoice
	require.NoError(t, db.First(&reloaded, "id = ?", invoice.ID).Error)
	assert.True(t, reloaded.PaidAmount.IsZero())
	assert.Equal(t, model.InvoicePending, reloaded.Status)

	var count int64
	require.NoError(t, db.Model(&model.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListPayments_FiltersByReceipt(t *testing.T) {
	db := newTestDB(t)
	svc := newBillingService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	a := createTestInvoice(t, db, client, "FC-001/26", "300", time.Now())
	b := createTestInvoice(t, db, client, "FC-002/26", "300", time.Now())

	first, err := svc.RecordPayment(ctx, RecordPaymentRequest{
		ClientID:   client.ID.String(),
		InvoiceIDs: []string{a.ID.String()},
		Amount:     "300",
		Method:     model.MethodCash,
	})
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, RecordPaymentRequest{
		ClientID:   client.ID.String(),
		InvoiceIDs: []string{b.ID.String()},
		Amount:     "300",
		Method:     model.MethodCard,
	})
	require.NoError(t, err)

	payments, total, err := svc.ListPayments(ctx, PaymentFilter{ReceiptID: first.ReceiptID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, payments, 1)
	assert.Equal(t, first.ReceiptID, payments[0].ReceiptID)
	assert.Equal(t, a.ID.String(), payments[0].InvoiceID)
}
