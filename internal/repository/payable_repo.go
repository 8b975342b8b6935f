package repository

import (
	"context"

	"sgflota/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayableRepository interface {
	Create(ctx context.Context, ap *model.AccountPayable) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AccountPayable, error)
	List(ctx context.Context, status string, page, limit int) ([]model.AccountPayable, int64, error)
	ListOpenByRental(ctx context.Context, rentalID uuid.UUID) ([]model.AccountPayable, error)
	Update(ctx context.Context, ap *model.AccountPayable) error
	ReleaseHeldByRental(ctx context.Context, rentalID uuid.UUID) error
}

type payableRepository struct {
	db *gorm.DB
}

func NewPayableRepository(db *gorm.DB) PayableRepository {
	return &payableRepository{db: db}
}

func (r *payableRepository) Create(ctx context.Context, ap *model.AccountPayable) error {
	return GetDB(ctx, r.db).Create(ap).Error
}

func (r *payableRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AccountPayable, error) {
	var ap model.AccountPayable
	if err := GetDB(ctx, r.db).First(&ap, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *payableRepository) List(ctx context.Context, status string, page, limit int) ([]model.AccountPayable, int64, error) {
	var payables []model.AccountPayable
	var total int64

	query := GetDB(ctx, r.db).Model(&model.AccountPayable{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("date desc").Offset(offset).Limit(limit).Find(&payables).Error; err != nil {
		return nil, 0, err
	}
	return payables, total, nil
}

// ListOpenByRental returns the rental's payables still awaiting payment
// (Pendiente or Retenido), for re-pricing when a rental is finalized.
func (r *payableRepository) ListOpenByRental(ctx context.Context, rentalID uuid.UUID) ([]model.AccountPayable, error) {
	var payables []model.AccountPayable
	err := GetDB(ctx, r.db).
		Where("rental_id = ? AND status IN ?", rentalID, []string{model.PayablePending, model.PayableHeld}).
		Find(&payables).Error
	return payables, err
}

func (r *payableRepository) Update(ctx context.Context, ap *model.AccountPayable) error {
	return GetDB(ctx, r.db).Save(ap).Error
}

// ReleaseHeldByRental moves the rental's Retenido payables to Pendiente,
// called when the rental's invoice reaches Pagado.
func (r *payableRepository) ReleaseHeldByRental(ctx context.Context, rentalID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.AccountPayable{}).
		Where("rental_id = ? AND status = ?", rentalID, model.PayableHeld).
		Update("status", model.PayablePending).Error
}
