package repository

import (
	"context"

	"sgflota/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RentalRepository interface {
	Create(ctx context.Context, rental *model.Rental) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Rental, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Rental, int64, error)
	Update(ctx context.Context, rental *model.Rental) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByVehicleAndStatus(ctx context.Context, vehicleID uuid.UUID, status string) (int64, error)
}

type rentalRepository struct {
	db *gorm.DB
}

func NewRentalRepository(db *gorm.DB) RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rental *model.Rental) error {
	return GetDB(ctx, r.db).Create(rental).Error
}

func (r *rentalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Rental, error) {
	var rental model.Rental
	if err := GetDB(ctx, r.db).Preload("Vehicle").Preload("Client").First(&rental, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *rentalRepository) List(ctx context.Context, status string, page, limit int) ([]model.Rental, int64, error) {
	var rentals []model.Rental
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Rental{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Vehicle").Preload("Client").Order("created_at desc").
		Offset(offset).Limit(limit).Find(&rentals).Error; err != nil {
		return nil, 0, err
	}
	return rentals, total, nil
}

func (r *rentalRepository) Update(ctx context.Context, rental *model.Rental) error {
	return GetDB(ctx, r.db).Save(rental).Error
}

func (r *rentalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Rental{}, "id = ?", id).Error
}

func (r *rentalRepository) CountByVehicleAndStatus(ctx context.Context, vehicleID uuid.UUID, status string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Rental{}).
		Where("vehicle_id = ? AND status = ?", vehicleID, status).Count(&count).Error
	return count, err
}
