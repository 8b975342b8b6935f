package service

import (
	"context"
	"fmt"
	"time"

	"sgflota/internal/model"
	"sgflota/internal/repository"
	ws "sgflota/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateExpenseRequest struct {
	Date        string `json:"date" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"required"`
	CategoryID  string `json:"category_id" binding:"required"`
	Status      string `json:"status"`
}

type UpdateExpenseRequest struct {
	Date        *string `json:"date"`
	Amount      *string `json:"amount"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id"`
	Status      *string `json:"status"`
}

type ExpenseResponse struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Amount       string `json:"amount"`
	Description  string `json:"description"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	InvoiceID    string `json:"invoice_id,omitempty"`
	Status       string `json:"status"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
}

// --- Interface ---

type ExpenseService interface {
	CreateExpense(ctx context.Context, req CreateExpenseRequest) (ExpenseResponse, error)
	GetExpense(ctx context.Context, id string) (ExpenseResponse, error)
	ListExpenses(ctx context.Context, categoryID string, page, limit int) ([]ExpenseResponse, int64, error)
	UpdateExpense(ctx context.Context, id string, req UpdateExpenseRequest) (ExpenseResponse, error)
	DeleteExpense(ctx context.Context, id string) error

	CreateCategory(ctx context.Context, req CreateCategoryRequest) (CategoryResponse, error)
	ListCategories(ctx context.Context) ([]CategoryResponse, error)
	DeleteCategory(ctx context.Context, id string) error
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
	hub         *ws.Hub
}

func NewExpenseService(expenseRepo repository.ExpenseRepository, hub *ws.Hub) ExpenseService {
	return &expenseService{expenseRepo: expenseRepo, hub: hub}
}

// --- Expenses ---

func (s *expenseService) CreateExpense(ctx context.Context, req CreateExpenseRequest) (ExpenseResponse, error) {
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("invalid date: %w", err)
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return ExpenseResponse{}, fmt.Errorf("amount must be positive")
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("invalid category_id: %w", err)
	}
	status := req.Status
	if status == "" {
		status = model.ExpensePending
	}
	if status != model.ExpensePending && status != model.ExpensePaid {
		return ExpenseResponse{}, fmt.Errorf("invalid status: %s", status)
	}

	expense := model.Expense{
		Date:        date,
		Amount:      amount,
		Description: req.Description,
		CategoryID:  categoryID,
		Status:      status,
	}
	if err := s.expenseRepo.Create(ctx, &expense); err != nil {
		return ExpenseResponse{}, fmt.Errorf("failed to create expense: %w", err)
	}

	s.hub.Notify("expenses", "created", expense.ID.String())
	return toExpenseResponse(expense), nil
}

func (s *expenseService) GetExpense(ctx context.Context, id string) (ExpenseResponse, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("invalid expense id: %w", err)
	}
	expense, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("expense not found: %w", err)
	}
	return toExpenseResponse(*expense), nil
}

func (s *expenseService) ListExpenses(ctx context.Context, categoryID string, page, limit int) ([]ExpenseResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	expenses, total, err := s.expenseRepo.List(ctx, categoryID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	result := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		result = append(result, toExpenseResponse(e))
	}
	return result, total, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, id string, req UpdateExpenseRequest) (ExpenseResponse, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("invalid expense id: %w", err)
	}
	expense, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("expense not found: %w", err)
	}
	// Auto-generated expenses stay tied to their source document.
	if expense.InvoiceID != nil {
		return ExpenseResponse{}, fmt.Errorf("expense was generated from a refund and cannot be edited")
	}

	if req.Date != nil {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return ExpenseResponse{}, fmt.Errorf("invalid date: %w", err)
		}
		expense.Date = date
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return ExpenseResponse{}, fmt.Errorf("invalid amount: %w", err)
		}
		if !amount.IsPositive() {
			return ExpenseResponse{}, fmt.Errorf("amount must be positive")
		}
		expense.Amount = amount
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return ExpenseResponse{}, fmt.Errorf("invalid category_id: %w", err)
		}
		expense.CategoryID = categoryID
		expense.Category = nil
	}
	if req.Status != nil {
		if *req.Status != model.ExpensePending && *req.Status != model.ExpensePaid {
			return ExpenseResponse{}, fmt.Errorf("invalid status: %s", *req.Status)
		}
		expense.Status = *req.Status
	}

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return ExpenseResponse{}, fmt.Errorf("failed to update expense: %w", err)
	}

	s.hub.Notify("expenses", "updated", expense.ID.String())
	return toExpenseResponse(*expense), nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id string) error {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid expense id: %w", err)
	}
	if err := s.expenseRepo.Delete(ctx, expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	s.hub.Notify("expenses", "deleted", id)
	return nil
}

// --- Categories ---

func (s *expenseService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (CategoryResponse, error) {
	ctype := req.Type
	if ctype == "" {
		ctype = model.CategoryExpense
	}
	if ctype != model.CategoryExpense && ctype != model.CategoryIncome {
		return CategoryResponse{}, fmt.Errorf("invalid type: %s", ctype)
	}

	category := model.ExpenseCategory{
		Name:        req.Name,
		Description: req.Description,
		Type:        ctype,
	}
	if err := s.expenseRepo.CreateCategory(ctx, &category); err != nil {
		return CategoryResponse{}, fmt.Errorf("failed to create category: %w", err)
	}
	return toCategoryResponse(category), nil
}

func (s *expenseService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.expenseRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	result := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, toCategoryResponse(c))
	}
	return result, nil
}

// DeleteCategory refuses while expenses reference the category.
func (s *expenseService) DeleteCategory(ctx context.Context, id string) error {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid category id: %w", err)
	}
	count, err := s.expenseRepo.CountByCategory(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to check expenses: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("category has expenses and cannot be deleted")
	}
	return s.expenseRepo.DeleteCategory(ctx, categoryID)
}

// --- Mapping ---

func toExpenseResponse(e model.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:          e.ID.String(),
		Date:        e.Date.Format(time.RFC3339),
		Amount:      e.Amount.StringFixed(2),
		Description: e.Description,
		CategoryID:  e.CategoryID.String(),
		Status:      e.Status,
	}
	if e.Category != nil {
		resp.CategoryName = e.Category.Name
	}
	if e.InvoiceID != nil {
		resp.InvoiceID = e.InvoiceID.String()
	}
	return resp
}

func toCategoryResponse(c model.ExpenseCategory) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		Type:        c.Type,
	}
}
