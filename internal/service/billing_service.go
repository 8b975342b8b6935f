package service

import (
	"context"
	"fmt"
	"time"

	"sgflota/internal/billing"
	"sgflota/internal/model"
	"sgflota/internal/repository"
	ws "sgflota/internal/websocket"
	"sgflota/pkg/docnumber"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const paymentNumberPrefix = "P"

// --- DTOs ---

type RecordPaymentRequest struct {
	ClientID   string   `json:"client_id" binding:"required"`
	InvoiceIDs []string `json:"invoice_ids" binding:"required,min=1"`
	Amount     string   `json:"amount" binding:"required"`
	Method     string   `json:"method" binding:"required"`
}

type PreviewAllocationRequest struct {
	ClientID   string   `json:"client_id" binding:"required"`
	InvoiceIDs []string `json:"invoice_ids" binding:"required,min=1"`
	Amount     string   `json:"amount" binding:"required"`
}

type AllocationLine struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	Amount        string `json:"amount"`
}

// AllocationPreview is the step-3 confirmation view of the payment wizard:
// how a lump sum would be split, before anything is persisted.
type AllocationPreview struct {
	Allocations []AllocationLine `json:"allocations"`
	Applied     string           `json:"applied"`
	Surplus     string           `json:"surplus"`
}

// ReceiptResponse is returned after a payment batch is recorded. The receipt
// formatter looks up the payment records by ReceiptID.
type ReceiptResponse struct {
	ReceiptID   string           `json:"receipt_id"`
	Date        string           `json:"date"`
	Method      string           `json:"method"`
	Allocations []AllocationLine `json:"allocations"`
	Applied     string           `json:"applied"`
	Surplus     string           `json:"surplus"`
}

type PaymentFilter struct {
	ReceiptID string
	ClientID  string
	InvoiceID string
	Page      int
	Limit     int
}

type PaymentResponse struct {
	ID            string `json:"id"`
	ReceiptID     string `json:"receipt_id"`
	PaymentNumber string `json:"payment_number"`
	ClientID      string `json:"client_id"`
	ClientName    string `json:"client_name,omitempty"`
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	Method        string `json:"method"`
}

// --- Interface ---

// BillingService settles client invoices: it previews and records lump-sum
// payments distributed oldest-invoice-first, and reverts recorded payments.
type BillingService interface {
	PreviewAllocation(ctx context.Context, req PreviewAllocationRequest) (AllocationPreview, error)
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (ReceiptResponse, error)
	ListPayments(ctx context.Context, filter PaymentFilter) ([]PaymentResponse, int64, error)
	DeletePayment(ctx context.Context, id string) error
}

type billingService struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	payableRepo repository.PayableRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
}

func NewBillingService(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	payableRepo repository.PayableRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) BillingService {
	return &billingService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		payableRepo: payableRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

// --- Implementation ---

// selectedInvoices loads and validates the invoices named in a payment
// request: all must exist and belong to the paying client.
func (s *billingService) selectedInvoices(ctx context.Context, clientID string, invoiceIDs []string) (uuid.UUID, []model.Invoice, error) {
	cid, err := uuid.Parse(clientID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("invalid client_id: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(invoiceIDs))
	for _, raw := range invoiceIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, nil, fmt.Errorf("invalid invoice id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}

	invoices, err := s.invoiceRepo.FindByIDs(ctx, ids)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	if len(invoices) != len(ids) {
		return uuid.Nil, nil, fmt.Errorf("one or more invoices do not exist")
	}
	for _, inv := range invoices {
		if inv.ClientID != cid {
			return uuid.Nil, nil, fmt.Errorf("invoice %s does not belong to client", inv.InvoiceNumber)
		}
	}
	return cid, invoices, nil
}

func (s *billingService) PreviewAllocation(ctx context.Context, req PreviewAllocationRequest) (AllocationPreview, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return AllocationPreview{}, fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return AllocationPreview{}, fmt.Errorf("amount must be positive")
	}

	_, invoices, err := s.selectedInvoices(ctx, req.ClientID, req.InvoiceIDs)
	if err != nil {
		return AllocationPreview{}, err
	}

	result := billing.Allocate(amount, invoices)
	return AllocationPreview{
		Allocations: toAllocationLines(result.Allocations, invoices),
		Applied:     result.Applied.StringFixed(2),
		Surplus:     result.Remainder.StringFixed(2),
	}, nil
}

func (s *billingService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (ReceiptResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return ReceiptResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return ReceiptResponse{}, fmt.Errorf("amount must be positive")
	}
	if !model.ValidPaymentMethod(req.Method) {
		return ReceiptResponse{}, fmt.Errorf("invalid payment method %q", req.Method)
	}

	clientID, invoices, err := s.selectedInvoices(ctx, req.ClientID, req.InvoiceIDs)
	if err != nil {
		return ReceiptResponse{}, err
	}

	result := billing.Allocate(amount, invoices)
	if len(result.Allocations) == 0 {
		return ReceiptResponse{}, fmt.Errorf("selected invoices have no outstanding balance")
	}

	receiptID := uuid.New()
	now := time.Now()

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		last, err := s.paymentRepo.LastNumber(txCtx, paymentNumberPrefix, docnumber.Suffix(now.Year()))
		if err != nil {
			return fmt.Errorf("failed to resolve payment number: %w", err)
		}
		number := docnumber.Next(paymentNumberPrefix, last, now.Year())

		for _, alloc := range result.Allocations {
			payment := model.Payment{
				ReceiptID:     receiptID,
				PaymentNumber: number,
				ClientID:      clientID,
				InvoiceID:     alloc.InvoiceID,
				Amount:        alloc.Amount,
				Date:          now,
				Method:        req.Method,
			}
			if err := s.paymentRepo.Create(txCtx, &payment); err != nil {
				return fmt.Errorf("failed to create payment: %w", err)
			}
			number = docnumber.Next(paymentNumberPrefix, number, now.Year())

			// Reload inside the transaction: the allocation was computed
			// against a snapshot and the invoice is about to be mutated.
			invoice, err := s.invoiceRepo.FindByID(txCtx, alloc.InvoiceID)
			if err != nil {
				return fmt.Errorf("invoice %s not found: %w", alloc.InvoiceID, err)
			}
			if alloc.Amount.GreaterThan(invoice.Pending()) {
				return fmt.Errorf("invoice %s changed while recording the payment, please retry", invoice.InvoiceNumber)
			}

			invoice.PaidAmount = invoice.PaidAmount.Add(alloc.Amount)
			invoice.Status = model.DeriveInvoiceStatus(invoice.Amount, invoice.PaidAmount)
			if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
				return fmt.Errorf("failed to update invoice %s: %w", invoice.InvoiceNumber, err)
			}

			// A fully paid rental invoice releases the rental's held payables.
			if invoice.Status == model.InvoicePaid && invoice.RentalID != nil {
				if err := s.payableRepo.ReleaseHeldByRental(txCtx, *invoice.RentalID); err != nil {
					return fmt.Errorf("failed to release payables: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return ReceiptResponse{}, err
	}

	s.hub.Notify("invoices", "updated", "")
	s.hub.Notify("payments", "created", receiptID.String())

	return ReceiptResponse{
		ReceiptID:   receiptID.String(),
		Date:        now.Format(time.RFC3339),
		Method:      req.Method,
		Allocations: toAllocationLines(result.Allocations, invoices),
		Applied:     result.Applied.StringFixed(2),
		Surplus:     result.Remainder.StringFixed(2),
	}, nil
}

func (s *billingService) ListPayments(ctx context.Context, filter PaymentFilter) ([]PaymentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	payments, total, err := s.paymentRepo.List(ctx, repository.PaymentListFilter{
		ReceiptID: filter.ReceiptID,
		ClientID:  filter.ClientID,
		InvoiceID: filter.InvoiceID,
		Page:      filter.Page,
		Limit:     filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %w", err)
	}

	result := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		result = append(result, toPaymentResponse(p))
	}
	return result, total, nil
}

// DeletePayment removes a payment and reverts its invoice: paid amount is
// reduced and status re-derived, possibly back to Pendiente. Admin only
// (enforced at the route).
func (s *billingService) DeletePayment(ctx context.Context, id string) error {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid payment id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		payment, err := s.paymentRepo.FindByID(txCtx, paymentID)
		if err != nil {
			return fmt.Errorf("payment not found: %w", err)
		}

		if err := s.paymentRepo.Delete(txCtx, paymentID); err != nil {
			return fmt.Errorf("failed to delete payment: %w", err)
		}

		invoice, err := s.invoiceRepo.FindByID(txCtx, payment.InvoiceID)
		if err != nil {
			return fmt.Errorf("invoice not found: %w", err)
		}

		invoice.PaidAmount = invoice.PaidAmount.Sub(payment.Amount)
		if invoice.PaidAmount.IsNegative() {
			invoice.PaidAmount = decimal.Zero
		}
		invoice.Status = model.DeriveInvoiceStatus(invoice.Amount, invoice.PaidAmount)
		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to revert invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.hub.Notify("payments", "deleted", id)
	return nil
}

// --- Mapping ---

func toAllocationLines(allocations []billing.Allocation, invoices []model.Invoice) []AllocationLine {
	numbers := make(map[uuid.UUID]string, len(invoices))
	for _, inv := range invoices {
		numbers[inv.ID] = inv.InvoiceNumber
	}

	lines := make([]AllocationLine, 0, len(allocations))
	for _, a := range allocations {
		lines = append(lines, AllocationLine{
			InvoiceID:     a.InvoiceID.String(),
			InvoiceNumber: numbers[a.InvoiceID],
			Amount:        a.Amount.StringFixed(2),
		})
	}
	return lines
}

func toPaymentResponse(p model.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID.String(),
		ReceiptID:     p.ReceiptID.String(),
		PaymentNumber: p.PaymentNumber,
		ClientID:      p.ClientID.String(),
		InvoiceID:     p.InvoiceID.String(),
		Amount:        p.Amount.StringFixed(2),
		Date:          p.Date.Format(time.RFC3339),
		Method:        p.Method,
	}
	if p.Client != nil {
		resp.ClientName = p.Client.Name
	}
	if p.Invoice != nil {
		resp.InvoiceNumber = p.Invoice.InvoiceNumber
	}
	return resp
}
