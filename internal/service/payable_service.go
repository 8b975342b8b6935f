package service

import (
	"context"
	"fmt"
	"time"

	"sgflota/internal/model"
	"sgflota/internal/repository"
	ws "sgflota/internal/websocket"

	"github.com/google/uuid"
)

// --- DTOs ---

type PayableResponse struct {
	ID              string `json:"id"`
	RentalID        string `json:"rental_id"`
	Type            string `json:"type"`
	BeneficiaryName string `json:"beneficiary_name"`
	BeneficiaryDni  string `json:"beneficiary_dni,omitempty"`
	Amount          string `json:"amount"`
	Date            string `json:"date"`
	Status          string `json:"status"`
}

// --- Interface ---

type PayableService interface {
	GetPayable(ctx context.Context, id string) (PayableResponse, error)
	ListPayables(ctx context.Context, status string, page, limit int) ([]PayableResponse, int64, error)
	PayPayable(ctx context.Context, id string) (PayableResponse, error)
}

type payableService struct {
	payableRepo repository.PayableRepository
	expenseRepo repository.ExpenseRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
}

func NewPayableService(
	payableRepo repository.PayableRepository,
	expenseRepo repository.ExpenseRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) PayableService {
	return &payableService{
		payableRepo: payableRepo,
		expenseRepo: expenseRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

// --- Implementation ---

func (s *payableService) GetPayable(ctx context.Context, id string) (PayableResponse, error) {
	payableID, err := uuid.Parse(id)
	if err != nil {
		return PayableResponse{}, fmt.Errorf("invalid payable id: %w", err)
	}
	ap, err := s.payableRepo.FindByID(ctx, payableID)
	if err != nil {
		return PayableResponse{}, fmt.Errorf("account payable not found: %w", err)
	}
	return toPayableResponse(*ap), nil
}

func (s *payableService) ListPayables(ctx context.Context, status string, page, limit int) ([]PayableResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	payables, total, err := s.payableRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch accounts payable: %w", err)
	}

	result := make([]PayableResponse, 0, len(payables))
	for _, ap := range payables {
		result = append(result, toPayableResponse(ap))
	}
	return result, total, nil
}

// PayPayable settles a released payable: Retenido ones stay locked until the
// rental's invoice is fully paid. Payment books the money out as an expense
// under the Pagos a Terceros category.
func (s *payableService) PayPayable(ctx context.Context, id string) (PayableResponse, error) {
	payableID, err := uuid.Parse(id)
	if err != nil {
		return PayableResponse{}, fmt.Errorf("invalid payable id: %w", err)
	}
	ap, err := s.payableRepo.FindByID(ctx, payableID)
	if err != nil {
		return PayableResponse{}, fmt.Errorf("account payable not found: %w", err)
	}
	switch ap.Status {
	case model.PayablePaid:
		return PayableResponse{}, fmt.Errorf("account payable is already paid")
	case model.PayableHeld:
		return PayableResponse{}, fmt.Errorf("account payable is held until the rental invoice is paid")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		ap.Status = model.PayablePaid
		if err := s.payableRepo.Update(txCtx, ap); err != nil {
			return fmt.Errorf("failed to update account payable: %w", err)
		}

		category, err := s.expenseRepo.FindOrCreateCategory(txCtx, model.CategoryThirdParty, model.CategoryExpense, "Pagos a propietarios y comerciales")
		if err != nil {
			return fmt.Errorf("failed to resolve expense category: %w", err)
		}
		expense := model.Expense{
			Date:        time.Now(),
			Amount:      ap.Amount,
			Description: fmt.Sprintf("Pago a %s (%s)", ap.BeneficiaryName, ap.Type),
			CategoryID:  category.ID,
			Status:      model.ExpensePaid,
		}
		if err := s.expenseRepo.Create(txCtx, &expense); err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}
		return nil
	})
	if err != nil {
		return PayableResponse{}, err
	}

	s.hub.Notify("payables", "updated", ap.ID.String())
	s.hub.Notify("expenses", "created", "")
	return toPayableResponse(*ap), nil
}

// --- Mapping ---

func toPayableResponse(ap model.AccountPayable) PayableResponse {
	return PayableResponse{
		ID:              ap.ID.String(),
		RentalID:        ap.RentalID.String(),
		Type:            ap.Type,
		BeneficiaryName: ap.BeneficiaryName,
		BeneficiaryDni:  ap.BeneficiaryDni,
		Amount:          ap.Amount.StringFixed(2),
		Date:            ap.Date.Format(time.RFC3339),
		Status:          ap.Status,
	}
}
