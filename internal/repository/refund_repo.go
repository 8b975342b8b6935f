package repository

import (
	"context"

	"sgflota/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefundRepository interface {
	Create(ctx context.Context, refund *model.Refund) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Refund, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Refund, int64, error)
	Update(ctx context.Context, refund *model.Refund) error
	Delete(ctx context.Context, id uuid.UUID) error
	LastNumber(ctx context.Context, prefix, suffix string) (string, error)
}

type refundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) Create(ctx context.Context, refund *model.Refund) error {
	return GetDB(ctx, r.db).Create(refund).Error
}

func (r *refundRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Refund, error) {
	var refund model.Refund
	if err := GetDB(ctx, r.db).First(&refund, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *refundRepository) List(ctx context.Context, status string, page, limit int) ([]model.Refund, int64, error) {
	var refunds []model.Refund
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Refund{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Client").Preload("Invoice").Order("date desc").
		Offset(offset).Limit(limit).Find(&refunds).Error; err != nil {
		return nil, 0, err
	}
	return refunds, total, nil
}

func (r *refundRepository) Update(ctx context.Context, refund *model.Refund) error {
	return GetDB(ctx, r.db).Save(refund).Error
}

func (r *refundRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Refund{}, "id = ?", id).Error
}

func (r *refundRepository) LastNumber(ctx context.Context, prefix, suffix string) (string, error) {
	var refund model.Refund
	err := GetDB(ctx, r.db).
		Where("refund_number LIKE ? AND refund_number LIKE ?", prefix+"-%", "%"+suffix).
		Order("created_at desc, refund_number desc").
		First(&refund).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return refund.RefundNumber, nil
}
