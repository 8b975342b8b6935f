package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sgflota/internal/model"
	"sgflota/internal/repository"
	"sgflota/pkg/docnumber"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const invoiceNumberPrefix = "FC"

// --- DTOs ---

type InvoiceItem struct {
	Description string `json:"description" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	Price       string `json:"price" binding:"required"`
}

type CreateInvoiceRequest struct {
	ClientID string        `json:"client_id" binding:"required"`
	Amount   string        `json:"amount" binding:"required"`
	Date     string        `json:"date"` // RFC3339, defaults to now
	Note     string        `json:"note"`
	Items    []InvoiceItem `json:"items"`
}

type UpdateInvoiceRequest struct {
	Amount *string `json:"amount"`
	Date   *string `json:"date"`
	Note   *string `json:"note"`
}

type InvoiceFilter struct {
	ClientID string
	Status   string
	Page     int
	Limit    int
}

type InvoiceResponse struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
	RentalID      string `json:"rental_id,omitempty"`
	ClientID      string `json:"client_id"`
	ClientName    string `json:"client_name,omitempty"`
	Amount        string `json:"amount"`
	PaidAmount    string `json:"paid_amount"`
	Pending       string `json:"pending"`
	Date          string `json:"date"`
	Status        string `json:"status"`
	Details       string `json:"details,omitempty"`
}

// invoiceDetails is the JSON blob stored on an invoice: either the billed
// rental period or manual line items.
type invoiceDetails struct {
	StartDate string        `json:"start_date,omitempty"`
	EndDate   string        `json:"end_date,omitempty"`
	Days      int           `json:"days,omitempty"`
	Note      string        `json:"note,omitempty"`
	Items     []InvoiceItem `json:"items,omitempty"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
	UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest) (InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
}

func NewInvoiceService(invoiceRepo repository.InvoiceRepository, paymentRepo repository.PaymentRepository) InvoiceService {
	return &invoiceService{invoiceRepo: invoiceRepo, paymentRepo: paymentRepo}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid client_id: %w", err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return InvoiceResponse{}, fmt.Errorf("amount must be positive")
	}

	date := time.Now()
	if req.Date != "" {
		date, err = time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid date: %w", err)
		}
	}

	details := ""
	if req.Note != "" || len(req.Items) > 0 {
		blob, err := json.Marshal(invoiceDetails{Note: req.Note, Items: req.Items})
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("failed to encode details: %w", err)
		}
		details = string(blob)
	}

	number, err := NextInvoiceNumber(ctx, s.invoiceRepo, date.Year())
	if err != nil {
		return InvoiceResponse{}, err
	}

	invoice := model.Invoice{
		InvoiceNumber: number,
		ClientID:      clientID,
		Amount:        amount,
		PaidAmount:    decimal.Zero,
		Date:          date,
		Status:        model.InvoicePending,
		Details:       details,
	}
	if err := s.invoiceRepo.Create(ctx, &invoice); err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	return toInvoiceResponse(invoice), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invoice not found: %w", err)
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repository.InvoiceListFilter{
		ClientID: filter.ClientID,
		Status:   filter.Status,
		Page:     filter.Page,
		Limit:    filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invoice not found: %w", err)
	}

	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid amount: %w", err)
		}
		if !amount.IsPositive() {
			return InvoiceResponse{}, fmt.Errorf("amount must be positive")
		}
		invoice.Amount = amount
		invoice.Status = model.DeriveInvoiceStatus(invoice.Amount, invoice.PaidAmount)
	}
	if req.Date != nil {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid date: %w", err)
		}
		invoice.Date = date
	}
	if req.Note != nil {
		var details invoiceDetails
		if invoice.Details != "" {
			_ = json.Unmarshal([]byte(invoice.Details), &details)
		}
		details.Note = *req.Note
		blob, err := json.Marshal(details)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("failed to encode details: %w", err)
		}
		invoice.Details = string(blob)
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to update invoice: %w", err)
	}
	return toInvoiceResponse(*invoice), nil
}

// DeleteInvoice refuses to remove an invoice with payments attached; the
// payments must be deleted first to keep the ledger consistent.
func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid invoice id: %w", err)
	}

	if _, err := s.invoiceRepo.FindByID(ctx, invoiceID); err != nil {
		return fmt.Errorf("invoice not found: %w", err)
	}

	count, err := s.paymentRepo.CountByInvoice(ctx, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to check payments: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("invoice has %d payment(s) attached; delete them first", count)
	}

	return s.invoiceRepo.Delete(ctx, invoiceID)
}

// NextInvoiceNumber issues the next FC number for the given year. Shared
// with the rental flows, which create invoices of their own.
func NextInvoiceNumber(ctx context.Context, repo repository.InvoiceRepository, year int) (string, error) {
	last, err := repo.LastNumber(ctx, invoiceNumberPrefix, docnumber.Suffix(year))
	if err != nil {
		return "", fmt.Errorf("failed to resolve invoice number: %w", err)
	}
	return docnumber.Next(invoiceNumberPrefix, last, year), nil
}

// --- Mapping ---

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		ClientID:      inv.ClientID.String(),
		Amount:        inv.Amount.StringFixed(2),
		PaidAmount:    inv.PaidAmount.StringFixed(2),
		Pending:       inv.Pending().StringFixed(2),
		Date:          inv.Date.Format(time.RFC3339),
		Status:        inv.Status,
		Details:       inv.Details,
	}
	if inv.RentalID != nil {
		resp.RentalID = inv.RentalID.String()
	}
	if inv.Client != nil {
		resp.ClientName = inv.Client.Name
	}
	return resp
}
