package repository

import (
	"context"

	"sgflota/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, categoryID string, page, limit int) ([]model.Expense, int64, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	CreateCategory(ctx context.Context, category *model.ExpenseCategory) error
	ListCategories(ctx context.Context) ([]model.ExpenseCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	FindOrCreateCategory(ctx context.Context, name, ctype, description string) (*model.ExpenseCategory, error)
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := GetDB(ctx, r.db).Preload("Category").First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, categoryID string, page, limit int) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Expense{})
	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Category").Order("date desc").Offset(offset).Limit(limit).Find(&expenses).Error; err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Expense{}, "id = ?", id).Error
}

func (r *expenseRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Expense{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

func (r *expenseRepository) CreateCategory(ctx context.Context, category *model.ExpenseCategory) error {
	return GetDB(ctx, r.db).Create(category).Error
}

func (r *expenseRepository) ListCategories(ctx context.Context) ([]model.ExpenseCategory, error) {
	var categories []model.ExpenseCategory
	err := GetDB(ctx, r.db).Order("name asc").Find(&categories).Error
	return categories, err
}

func (r *expenseRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.ExpenseCategory{}, "id = ?", id).Error
}

// FindOrCreateCategory provisions the fixed categories used by the refund
// and payable flows on first use.
func (r *expenseRepository) FindOrCreateCategory(ctx context.Context, name, ctype, description string) (*model.ExpenseCategory, error) {
	var category model.ExpenseCategory
	err := GetDB(ctx, r.db).First(&category, "name = ?", name).Error
	if err == nil {
		return &category, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	category = model.ExpenseCategory{Name: name, Type: ctype, Description: description}
	if err := GetDB(ctx, r.db).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
