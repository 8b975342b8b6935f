package repository

import (
	"context"

	"sgflota/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentListFilter narrows payment listings. ReceiptID is what the receipt
// formatter uses to gather one settlement's records.
type PaymentListFilter struct {
	ReceiptID string
	ClientID  string
	InvoiceID string
	Page      int
	Limit     int
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	List(ctx context.Context, filter PaymentListFilter) ([]model.Payment, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error)
	LastNumber(ctx context.Context, prefix, suffix string) (string, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	if err := GetDB(ctx, r.db).First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, filter PaymentListFilter) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Payment{})
	if filter.ReceiptID != "" {
		query = query.Where("receipt_id = ?", filter.ReceiptID)
	}
	if filter.ClientID != "" {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.InvoiceID != "" {
		query = query.Where("invoice_id = ?", filter.InvoiceID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Invoice").Preload("Client").Order("date desc, payment_number desc").
		Offset(offset).Limit(filter.Limit).Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func (r *paymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Payment{}, "id = ?", id).Error
}

func (r *paymentRepository) CountByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Payment{}).Where("invoice_id = ?", invoiceID).Count(&count).Error
	return count, err
}

func (r *paymentRepository) LastNumber(ctx context.Context, prefix, suffix string) (string, error) {
	var payment model.Payment
	err := GetDB(ctx, r.db).
		Where("payment_number LIKE ? AND payment_number LIKE ?", prefix+"-%", "%"+suffix).
		Order("created_at desc, payment_number desc").
		First(&payment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return payment.PaymentNumber, nil
}
