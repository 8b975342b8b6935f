package service

import (
	"context"
	"fmt"
	"time"

	"sgflota/internal/model"
	"sgflota/internal/repository"
	ws "sgflota/internal/websocket"
	"sgflota/pkg/docnumber"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateRefundRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
	Date      string `json:"date"`
}

type UpdateRefundRequest struct {
	Amount *string `json:"amount"`
	Reason *string `json:"reason"`
	Date   *string `json:"date"`
}

type RefundResponse struct {
	ID            string `json:"id"`
	RefundNumber  string `json:"refund_number"`
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	ClientID      string `json:"client_id"`
	ClientName    string `json:"client_name,omitempty"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	Reason        string `json:"reason"`
	Status        string `json:"status"`
}

// --- Interface ---

type RefundService interface {
	CreateRefund(ctx context.Context, req CreateRefundRequest) (RefundResponse, error)
	GetRefund(ctx context.Context, id string) (RefundResponse, error)
	ListRefunds(ctx context.Context, status string, page, limit int) ([]RefundResponse, int64, error)
	UpdateRefund(ctx context.Context, id string, req UpdateRefundRequest) (RefundResponse, error)
	SettleRefund(ctx context.Context, id string) (RefundResponse, error)
	DeleteRefund(ctx context.Context, id string) error
}

type refundService struct {
	refundRepo  repository.RefundRepository
	invoiceRepo repository.InvoiceRepository
	expenseRepo repository.ExpenseRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
}

func NewRefundService(
	refundRepo repository.RefundRepository,
	invoiceRepo repository.InvoiceRepository,
	expenseRepo repository.ExpenseRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) RefundService {
	return &refundService{
		refundRepo:  refundRepo,
		invoiceRepo: invoiceRepo,
		expenseRepo: expenseRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

// --- Implementation ---

func (s *refundService) CreateRefund(ctx context.Context, req CreateRefundRequest) (RefundResponse, error) {
	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		return RefundResponse{}, fmt.Errorf("invalid invoice_id: %w", err)
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return RefundResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return RefundResponse{}, fmt.Errorf("amount must be positive")
	}

	date := time.Now()
	if req.Date != "" {
		date, err = time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return RefundResponse{}, fmt.Errorf("invalid date: %w", err)
		}
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return RefundResponse{}, fmt.Errorf("invoice not found: %w", err)
	}

	var refund model.Refund
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		last, err := s.refundRepo.LastNumber(txCtx, refundNumberPrefix, docnumber.Suffix(date.Year()))
		if err != nil {
			return fmt.Errorf("failed to resolve refund number: %w", err)
		}
		refund = model.Refund{
			RefundNumber: docnumber.Next(refundNumberPrefix, last, date.Year()),
			InvoiceID:    invoice.ID,
			ClientID:     invoice.ClientID,
			Amount:       amount,
			Date:         date,
			Reason:       req.Reason,
			Status:       model.RefundPending,
		}
		if err := s.refundRepo.Create(txCtx, &refund); err != nil {
			return fmt.Errorf("failed to create refund: %w", err)
		}
		return nil
	})
	if err != nil {
		return RefundResponse{}, err
	}

	s.hub.Notify("refunds", "created", refund.ID.String())
	return toRefundResponse(refund), nil
}

func (s *refundService) GetRefund(ctx context.Context, id string) (RefundResponse, error) {
	refundID, err := uuid.Parse(id)
	if err != nil {
		return RefundResponse{}, fmt.Errorf("invalid refund id: %w", err)
	}
	refund, err := s.refundRepo.FindByID(ctx, refundID)
	if err != nil {
		return RefundResponse{}, fmt.Errorf("refund not found: %w", err)
	}
	return toRefundResponse(*refund), nil
}

func (s *refundService) ListRefunds(ctx context.Context, status string, page, limit int) ([]RefundResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	refunds, total, err := s.refundRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch refunds: %w", err)
	}

	result := make([]RefundResponse, 0, len(refunds))
	for _, r := range refunds {
		result = append(result, toRefundResponse(r))
	}
	return result, total, nil
}

// UpdateRefund edits a pending refund. Settled ones are immutable: their
// amount already produced an expense.
func (s *refundService) UpdateRefund(ctx context.Context, id string, req UpdateRefundRequest) (RefundResponse, error) {
	refundID, err := uuid.Parse(id)
	if err != nil {
		return RefundResponse{}, fmt.Errorf("invalid refund id: %w", err)
	}
	refund, err := s.refundRepo.FindByID(ctx, refundID)
	if err != nil {
		return RefundResponse{}, fmt.Errorf("refund not found: %w", err)
	}
	if refund.Status == model.RefundRefunded {
		return RefundResponse{}, fmt.Errorf("refund %s is already settled", refund.RefundNumber)
	}

	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return RefundResponse{}, fmt.Errorf("invalid amount: %w", err)
		}
		if !amount.IsPositive() {
			return RefundResponse{}, fmt.Errorf("amount must be positive")
		}
		refund.Amount = amount
	}
	if req.Reason != nil {
		refund.Reason = *req.Reason
	}
	if req.Date != nil {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return RefundResponse{}, fmt.Errorf("invalid date: %w", err)
		}
		refund.Date = date
	}

	if err := s.refundRepo.Update(ctx, refund); err != nil {
		return RefundResponse{}, fmt.Errorf("failed to update refund: %w", err)
	}

	s.hub.Notify("refunds", "updated", id)
	return toRefundResponse(*refund), nil
}

// SettleRefund marks the refund Reembolsado and books the outgoing money as
// an expense under the Reembolsos category.
func (s *refundService) SettleRefund(ctx context.Context, id string) (RefundResponse, error) {
	refundID, err := uuid.Parse(id)
	if err != nil {
		return RefundResponse{}, fmt.Errorf("invalid refund id: %w", err)
	}
	refund, err := s.refundRepo.FindByID(ctx, refundID)
	if err != nil {
		return RefundResponse{}, fmt.Errorf("refund not found: %w", err)
	}
	if refund.Status == model.RefundRefunded {
		return RefundResponse{}, fmt.Errorf("refund %s is already settled", refund.RefundNumber)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		refund.Status = model.RefundRefunded
		if err := s.refundRepo.Update(txCtx, refund); err != nil {
			return fmt.Errorf("failed to update refund: %w", err)
		}

		category, err := s.expenseRepo.FindOrCreateCategory(txCtx, model.CategoryRefunds, model.CategoryExpense, "Devoluciones de dinero a clientes")
		if err != nil {
			return fmt.Errorf("failed to resolve expense category: %w", err)
		}
		expense := model.Expense{
			Date:        time.Now(),
			Amount:      refund.Amount,
			Description: fmt.Sprintf("Reembolso %s", refund.RefundNumber),
			CategoryID:  category.ID,
			InvoiceID:   &refund.InvoiceID,
			Status:      model.ExpensePaid,
		}
		if err := s.expenseRepo.Create(txCtx, &expense); err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}
		return nil
	})
	if err != nil {
		return RefundResponse{}, err
	}

	s.hub.Notify("refunds", "updated", refund.ID.String())
	s.hub.Notify("expenses", "created", "")
	return toRefundResponse(*refund), nil
}

// DeleteRefund removes a pending refund. Settled ones already produced an
// expense and stay on the books.
func (s *refundService) DeleteRefund(ctx context.Context, id string) error {
	refundID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid refund id: %w", err)
	}
	refund, err := s.refundRepo.FindByID(ctx, refundID)
	if err != nil {
		return fmt.Errorf("refund not found: %w", err)
	}
	if refund.Status == model.RefundRefunded {
		return fmt.Errorf("refund %s is already settled and cannot be deleted", refund.RefundNumber)
	}
	if err := s.refundRepo.Delete(ctx, refundID); err != nil {
		return fmt.Errorf("failed to delete refund: %w", err)
	}
	s.hub.Notify("refunds", "deleted", id)
	return nil
}

// --- Mapping ---

func toRefundResponse(r model.Refund) RefundResponse {
	resp := RefundResponse{
		ID:           r.ID.String(),
		RefundNumber: r.RefundNumber,
		InvoiceID:    r.InvoiceID.String(),
		ClientID:     r.ClientID.String(),
		Amount:       r.Amount.StringFixed(2),
		Date:         r.Date.Format(time.RFC3339),
		Reason:       r.Reason,
		Status:       r.Status,
	}
	if r.Invoice != nil {
		resp.InvoiceNumber = r.Invoice.InvoiceNumber
	}
	if r.Client != nil {
		resp.ClientName = r.Client.Name
	}
	return resp
}
