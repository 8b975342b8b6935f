package service

import (
	"context"
	"testing"
	"time"

	"sgflota/internal/model"
	"sgflota/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInvoiceService(db *gorm.DB) InvoiceService {
	return NewInvoiceService(
		repository.NewInvoiceRepository(db),
		repository.NewPaymentRepository(db),
	)
}

func TestCreateInvoice_ManualWithItems(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")

	resp, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		ClientID: client.ID.String(),
		Amount:   "350.75",
		Date:     "2026-04-10T00:00:00Z",
		Note:     "Servicio de chofer",
		Items: []InvoiceItem{
			{Description: "Chofer por día", Quantity: 3, Price: "100"},
			{Description: "Combustible", Quantity: 1, Price: "50.75"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "FC-001/26", resp.InvoiceNumber)
	assert.Equal(t, "350.75", resp.Amount)
	assert.Equal(t, "0.00", resp.PaidAmount)
	assert.Equal(t, "350.75", resp.Pending)
	assert.Equal(t, model.InvoicePending, resp.Status)
	assert.Contains(t, resp.Details, "Chofer por día")

	second, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		ClientID: client.ID.String(),
		Amount:   "100",
		Date:     "2026-04-11T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "FC-002/26", second.InvoiceNumber)
}

func TestUpdateInvoice_AmountRederivesStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	invoice := createTestInvoice(t, db, client, "FC-001/26", "1000", time.Now())
	require.NoError(t, db.Model(&model.Invoice{}).Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{"paid_amount": "400", "status": model.InvoicePartial}).Error)

	// Lowering the amount below the paid portion settles the invoice.
	amount := "400"
	updated, err := svc.UpdateInvoice(ctx, invoice.ID.String(), UpdateInvoiceRequest{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePaid, updated.Status)
	assert.Equal(t, "0.00", updated.Pending)
}

func TestDeleteInvoice_RefusedWithPayments(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	billing := newBillingService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	invoice := createTestInvoice(t, db, client, "FC-001/26", "500", time.Now())

	_, err := billing.RecordPayment(ctx, RecordPaymentRequest{
		ClientID:   client.ID.String(),
		InvoiceIDs: []string{invoice.ID.String()},
		Amount:     "200",
		Method:     model.MethodCash,
	})
	require.NoError(t, err)

	err = svc.DeleteInvoice(ctx, invoice.ID.String())
	assert.ErrorContains(t, err, "payment(s) attached")

	// Without payments deletion goes through.
	other := createTestInvoice(t, db, client, "FC-099/26", "100", time.Now())
	require.NoError(t, svc.DeleteInvoice(ctx, other.ID.String()))
}
