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

func newRefundService(db *gorm.DB) RefundService {
	return NewRefundService(
		repository.NewRefundRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewExpenseRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)
}

func TestCreateRefund_SequentialNumbering(t *testing.T) {
	db := newTestDB(t)
	svc := newRefundService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	invoice := createTestInvoice(t, db, client, "FC-001/26", "500", time.Now())

	first, err := svc.CreateRefund(ctx, CreateRefundRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    "100",
		Reason:    "Cobro duplicado",
	})
	require.NoError(t, err)

	second, err := svc.CreateRefund(ctx, CreateRefundRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    "50",
		Reason:    "Ajuste de tarifa",
	})
	require.NoError(t, err)

	assert.Contains(t, first.RefundNumber, "R-001")
	assert.Contains(t, second.RefundNumber, "R-002")
	assert.Equal(t, model.RefundPending, first.Status)
	assert.Equal(t, client.ID.String(), first.ClientID)
}

func TestSettleRefund_BooksExpense(t *testing.T) {
	db := newTestDB(t)
	svc := newRefundService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	invoice := createTestInvoice(t, db, client, "FC-001/26", "500", time.Now())

	created, err := svc.CreateRefund(ctx, CreateRefundRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    "230",
		Reason:    "Devolución anticipada de vehículo",
	})
	require.NoError(t, err)

	settled, err := svc.SettleRefund(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RefundRefunded, settled.Status)

	var expense model.Expense
	require.NoError(t, db.Preload("Category").First(&expense).Error)
	assert.Equal(t, "230", expense.Amount.String())
	assert.Equal(t, model.ExpensePaid, expense.Status)
	require.NotNil(t, expense.InvoiceID)
	assert.Equal(t, invoice.ID, *expense.InvoiceID)
	require.NotNil(t, expense.Category)
	assert.Equal(t, model.CategoryRefunds, expense.Category.Name)

	// Settling twice is refused and books nothing new.
	_, err = svc.SettleRefund(ctx, created.ID)
	assert.ErrorContains(t, err, "already settled")

	var count int64
	require.NoError(t, db.Model(&model.Expense{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteRefund_SettledStaysOnTheBooks(t *testing.T) {
	db := newTestDB(t)
	svc := newRefundService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	invoice := createTestInvoice(t, db, client, "FC-001/26", "500", time.Now())

	created, err := svc.CreateRefund(ctx, CreateRefundRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    "100",
		Reason:    "Cobro duplicado",
	})
	require.NoError(t, err)

	_, err = svc.SettleRefund(ctx, created.ID)
	require.NoError(t, err)

	err = svc.DeleteRefund(ctx, created.ID)
	assert.ErrorContains(t, err, "cannot be deleted")

	var count int64
	require.NoError(t, db.Model(&model.Refund{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateRefund_SettledIsImmutable(t *testing.T) {
	db := newTestDB(t)
	svc := newRefundService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	invoice := createTestInvoice(t, db, client, "FC-001/26", "500", time.Now())

	created, err := svc.CreateRefund(ctx, CreateRefundRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    "100",
		Reason:    "Cobro duplicado",
	})
	require.NoError(t, err)

	amount := "150"
	updated, err := svc.UpdateRefund(ctx, created.ID, UpdateRefundRequest{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, "150.00", updated.Amount)

	_, err = svc.SettleRefund(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.UpdateRefund(ctx, created.ID, UpdateRefundRequest{Amount: &amount})
	assert.ErrorContains(t, err, "already settled")
}

func TestDeleteRefund_PendingIsRemoved(t *testing.T) {
	db := newTestDB(t)
	svc := newRefundService(db)
	ctx := context.Background()

	client := createTestClient(t, db, "María López", "11111111")
	invoice := createTestInvoice(t, db, client, "FC-001/26", "500", time.Now())

	created, err := svc.CreateRefund(ctx, CreateRefundRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    "100",
		Reason:    "Cobro duplicado",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRefund(ctx, created.ID))

	var count int64
	require.NoError(t, db.Model(&model.Refund{}).Count(&count).Error)
	assert.Zero(t, count)
}
