package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"sgflota/internal/model"
	"sgflota/internal/repository"
	ws "sgflota/internal/websocket"
	"sgflota/pkg/docnumber"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const refundNumberPrefix = "R"

// Revenue split for third-party fleet: the vehicle owner receives 80% of the
// rental total, a commercial agent 10%.
var (
	vatFactor  = decimal.NewFromFloat(1.15)
	ownerShare = decimal.NewFromFloat(0.80)
	agentShare = decimal.NewFromFloat(0.10)
)

// --- DTOs ---

type CreateRentalRequest struct {
	VehicleID       string `json:"vehicle_id" binding:"required"`
	ClientID        string `json:"client_id" binding:"required"`
	StartDate       string `json:"start_date" binding:"required"`
	EndDate         string `json:"end_date" binding:"required"`
	DailyRate       string `json:"daily_rate" binding:"required"`
	CommercialAgent string `json:"commercial_agent"`
}

type UpdateRentalRequest struct {
	EndDate         *string `json:"end_date"`
	CommercialAgent *string `json:"commercial_agent"`
}

type FinalizeRentalRequest struct {
	EndDate string `json:"end_date" binding:"required"`
}

type RentalResponse struct {
	ID              string `json:"id"`
	VehicleID       string `json:"vehicle_id"`
	VehicleName     string `json:"vehicle_name,omitempty"`
	ClientID        string `json:"client_id"`
	ClientName      string `json:"client_name,omitempty"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	OriginalEndDate string `json:"original_end_date,omitempty"`
	DailyRate       string `json:"daily_rate"`
	TotalAmount     string `json:"total_amount"`
	Status          string `json:"status"`
	CommercialAgent string `json:"commercial_agent,omitempty"`
}

// FinalizeResult reports what the settlement produced: a supplementary
// invoice for extra days, or a refund for an early return.
type FinalizeResult struct {
	RentalID      string `json:"rental_id"`
	ActualDays    int    `json:"actual_days"`
	ActualTotal   string `json:"actual_total"`
	BilledAmount  string `json:"billed_amount"`
	Difference    string `json:"difference"`
	ExtraInvoice  string `json:"extra_invoice,omitempty"`
	RefundCreated bool   `json:"refund_created"`
}

// --- Interface ---

type RentalService interface {
	CreateRental(ctx context.Context, req CreateRentalRequest) (RentalResponse, error)
	GetRental(ctx context.Context, id string) (RentalResponse, error)
	ListRentals(ctx context.Context, status string, page, limit int) ([]RentalResponse, int64, error)
	UpdateRental(ctx context.Context, id string, req UpdateRentalRequest) (RentalResponse, error)
	FinalizeRental(ctx context.Context, id string, req FinalizeRentalRequest) (FinalizeResult, error)
	DeleteRental(ctx context.Context, id string) error
}

type rentalService struct {
	rentalRepo  repository.RentalRepository
	vehicleRepo repository.VehicleRepository
	invoiceRepo repository.InvoiceRepository
	payableRepo repository.PayableRepository
	refundRepo  repository.RefundRepository
	txManager   repository.TransactionManager
	db          *gorm.DB // agent lookup only
	hub         *ws.Hub
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	vehicleRepo repository.VehicleRepository,
	invoiceRepo repository.InvoiceRepository,
	payableRepo repository.PayableRepository,
	refundRepo repository.RefundRepository,
	txManager repository.TransactionManager,
	db *gorm.DB,
	hub *ws.Hub,
) RentalService {
	return &rentalService{
		rentalRepo:  rentalRepo,
		vehicleRepo: vehicleRepo,
		invoiceRepo: invoiceRepo,
		payableRepo: payableRepo,
		refundRepo:  refundRepo,
		txManager:   txManager,
		db:          db,
		hub:         hub,
	}
}

// --- Implementation ---

// rentalDays charges whole days, minimum one: a return within 24h of pickup
// still bills a full day.
func rentalDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

func (s *rentalService) CreateRental(ctx context.Context, req CreateRentalRequest) (RentalResponse, error) {
	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return RentalResponse{}, fmt.Errorf("invalid vehicle_id: %w", err)
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return RentalResponse{}, fmt.Errorf("invalid client_id: %w", err)
	}
	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return RentalResponse{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return RentalResponse{}, fmt.Errorf("invalid end_date: %w", err)
	}
	if end.Before(start) {
		return RentalResponse{}, fmt.Errorf("end date must be after or same as start date")
	}
	dailyRate, err := decimal.NewFromString(req.DailyRate)
	if err != nil {
		return RentalResponse{}, fmt.Errorf("invalid daily_rate: %w", err)
	}
	if !dailyRate.IsPositive() {
		return RentalResponse{}, fmt.Errorf("daily_rate must be positive")
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return RentalResponse{}, fmt.Errorf("vehicle not found: %w", err)
	}
	if vehicle.Status != model.VehicleAvailable {
		return RentalResponse{}, fmt.Errorf("vehicle %s is not available (%s)", vehicle.Plate, vehicle.Status)
	}

	days := rentalDays(start, end)
	total := dailyRate.Mul(decimal.NewFromInt(int64(days)))

	rental := model.Rental{
		VehicleID:       vehicleID,
		ClientID:        clientID,
		StartDate:       start,
		EndDate:         end,
		DailyRate:       dailyRate,
		TotalAmount:     total,
		Status:          model.RentalActive,
		CommercialAgent: req.CommercialAgent,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.rentalRepo.Create(txCtx, &rental); err != nil {
			return fmt.Errorf("failed to create rental: %w", err)
		}

		// Invoice for the full period, VAT included.
		number, err := NextInvoiceNumber(txCtx, s.invoiceRepo, time.Now().Year())
		if err != nil {
			return err
		}
		details, _ := json.Marshal(invoiceDetails{
			StartDate: start.Format(time.RFC3339),
			EndDate:   end.Format(time.RFC3339),
			Days:      days,
		})
		invoice := model.Invoice{
			InvoiceNumber: number,
			RentalID:      &rental.ID,
			ClientID:      clientID,
			Amount:        total.Mul(vatFactor).Round(2),
			PaidAmount:    decimal.Zero,
			Date:          time.Now(),
			Status:        model.InvoicePending,
			Details:       string(details),
		}
		if err := s.invoiceRepo.Create(txCtx, &invoice); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		// Third-party payables are created Retenido and released when the
		// invoice is fully paid.
		if vehicle.Ownership == model.OwnershipThirdParty {
			ownerName := vehicle.OwnerName
			if ownerName == "" {
				ownerName = "Dueño Desconocido"
			}
			ap := model.AccountPayable{
				RentalID:        rental.ID,
				Type:            model.PayableOwner,
				BeneficiaryName: ownerName,
				BeneficiaryDni:  vehicle.OwnerDni,
				Amount:          total.Mul(ownerShare).Round(2),
				Date:            time.Now(),
				Status:          model.PayableHeld,
			}
			if err := s.payableRepo.Create(txCtx, &ap); err != nil {
				return fmt.Errorf("failed to create owner payable: %w", err)
			}
		}

		if req.CommercialAgent != "" {
			name, dni := s.resolveAgent(txCtx, req.CommercialAgent)
			ap := model.AccountPayable{
				RentalID:        rental.ID,
				Type:            model.PayableAgent,
				BeneficiaryName: name,
				BeneficiaryDni:  dni,
				Amount:          total.Mul(agentShare).Round(2),
				Date:            time.Now(),
				Status:          model.PayableHeld,
			}
			if err := s.payableRepo.Create(txCtx, &ap); err != nil {
				return fmt.Errorf("failed to create agent payable: %w", err)
			}
		}

		if err := s.vehicleRepo.UpdateStatus(txCtx, vehicleID, model.VehicleRented); err != nil {
			return fmt.Errorf("failed to update vehicle status: %w", err)
		}
		return nil
	})
	if err != nil {
		return RentalResponse{}, err
	}

	s.hub.Notify("rentals", "created", rental.ID.String())
	return toRentalResponse(rental), nil
}

// resolveAgent looks the loose agent reference up in the registry, by id or
// by name; an unknown reference keeps the raw string as beneficiary name.
func (s *rentalService) resolveAgent(ctx context.Context, ref string) (name, dni string) {
	var agent model.CommercialAgent
	query := repository.GetDB(ctx, s.db)
	if id, err := uuid.Parse(ref); err == nil {
		if err := query.First(&agent, "id = ?", id).Error; err == nil {
			return agent.Name, agent.Dni
		}
	}
	if err := repository.GetDB(ctx, s.db).First(&agent, "name = ?", ref).Error; err == nil {
		return agent.Name, agent.Dni
	}
	return ref, ""
}

func (s *rentalService) GetRental(ctx context.Context, id string) (RentalResponse, error) {
	rentalID, err := uuid.Parse(id)
	if err != nil {
		return RentalResponse{}, fmt.Errorf("invalid rental id: %w", err)
	}
	rental, err := s.rentalRepo.FindByID(ctx, rentalID)
	if err != nil {
		return RentalResponse{}, fmt.Errorf("rental not found: %w", err)
	}
	return toRentalResponse(*rental), nil
}

func (s *rentalService) ListRentals(ctx context.Context, status string, page, limit int) ([]RentalResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	rentals, total, err := s.rentalRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch rentals: %w", err)
	}

	result := make([]RentalResponse, 0, len(rentals))
	for _, r := range rentals {
		result = append(result, toRentalResponse(r))
	}
	return result, total, nil
}

func (s *rentalService) UpdateRental(ctx context.Context, id string, req UpdateRentalRequest) (RentalResponse, error) {
	rentalID, err := uuid.Parse(id)
	if err != nil {
		return RentalResponse{}, fmt.Errorf("invalid rental id: %w", err)
	}
	rental, err := s.rentalRepo.FindByID(ctx, rentalID)
	if err != nil {
		return RentalResponse{}, fmt.Errorf("rental not found: %w", err)
	}
	if rental.Status == model.RentalFinalized {
		return RentalResponse{}, fmt.Errorf("rental is already finalized")
	}

	if req.EndDate != nil {
		end, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			return RentalResponse{}, fmt.Errorf("invalid end_date: %w", err)
		}
		if end.Before(rental.StartDate) {
			return RentalResponse{}, fmt.Errorf("end date must be after start date")
		}
		if rental.OriginalEndDate == nil {
			original := rental.EndDate
			rental.OriginalEndDate = &original
		}
		rental.EndDate = end
	}
	if req.CommercialAgent != nil {
		rental.CommercialAgent = *req.CommercialAgent
	}

	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return RentalResponse{}, fmt.Errorf("failed to update rental: %w", err)
	}
	return toRentalResponse(*rental), nil
}

// FinalizeRental settles a rental at its actual end date: recomputes the
// total, bills extra days on a supplementary invoice or refunds the unused
// ones, re-prices open payables and releases the vehicle.
func (s *rentalService) FinalizeRental(ctx context.Context, id string, req FinalizeRentalRequest) (FinalizeResult, error) {
	rentalID, err := uuid.Parse(id)
	if err != nil {
		return FinalizeResult{}, fmt.Errorf("invalid rental id: %w", err)
	}
	actualEnd, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return FinalizeResult{}, fmt.Errorf("invalid end_date: %w", err)
	}

	rental, err := s.rentalRepo.FindByID(ctx, rentalID)
	if err != nil {
		return FinalizeResult{}, fmt.Errorf("rental not found: %w", err)
	}
	if rental.Status == model.RentalFinalized {
		return FinalizeResult{}, fmt.Errorf("rental is already finalized")
	}

	actualDays := rentalDays(rental.StartDate, actualEnd)
	actualTotal := rental.DailyRate.Mul(decimal.NewFromInt(int64(actualDays)))

	invoice, invErr := s.invoiceRepo.FindByRental(ctx, rentalID)
	billed := decimal.Zero
	if invErr == nil {
		// Compare VAT-exclusive amounts: the rental total never includes
		// VAT, the invoice amount always does.
		billed = invoice.Amount.Div(vatFactor).Round(2)
	}
	diff := actualTotal.Sub(billed)

	result := FinalizeResult{
		RentalID:     rental.ID.String(),
		ActualDays:   actualDays,
		ActualTotal:  actualTotal.StringFixed(2),
		BilledAmount: billed.StringFixed(2),
		Difference:   diff.StringFixed(2),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if rental.OriginalEndDate == nil {
			original := rental.EndDate
			rental.OriginalEndDate = &original
		}
		rental.EndDate = actualEnd
		rental.Status = model.RentalFinalized
		rental.TotalAmount = actualTotal
		if err := s.rentalRepo.Update(txCtx, rental); err != nil {
			return fmt.Errorf("failed to update rental: %w", err)
		}

		if err := s.vehicleRepo.UpdateStatus(txCtx, rental.VehicleID, model.VehicleAvailable); err != nil {
			return fmt.Errorf("failed to release vehicle: %w", err)
		}

		switch {
		case diff.IsPositive():
			number, err := NextInvoiceNumber(txCtx, s.invoiceRepo, time.Now().Year())
			if err != nil {
				return err
			}
			details, _ := json.Marshal(invoiceDetails{
				Note: fmt.Sprintf("Días excedidos de la renta (%d días facturados)", actualDays),
			})
			extra := model.Invoice{
				InvoiceNumber: number,
				ClientID:      rental.ClientID,
				Amount:        diff.Mul(vatFactor).Round(2),
				PaidAmount:    decimal.Zero,
				Date:          time.Now(),
				Status:        model.InvoicePending,
				Details:       string(details),
			}
			if err := s.invoiceRepo.Create(txCtx, &extra); err != nil {
				return fmt.Errorf("failed to create supplementary invoice: %w", err)
			}
			result.ExtraInvoice = number

		case diff.IsNegative() && invErr == nil:
			last, err := s.refundRepo.LastNumber(txCtx, refundNumberPrefix, docnumber.Suffix(time.Now().Year()))
			if err != nil {
				return fmt.Errorf("failed to resolve refund number: %w", err)
			}
			refund := model.Refund{
				RefundNumber: docnumber.Next(refundNumberPrefix, last, time.Now().Year()),
				InvoiceID:    invoice.ID,
				ClientID:     rental.ClientID,
				Amount:       diff.Abs().Mul(vatFactor).Round(2),
				Date:         time.Now(),
				Reason:       "Devolución anticipada de vehículo",
				Status:       model.RefundPending,
			}
			if err := s.refundRepo.Create(txCtx, &refund); err != nil {
				return fmt.Errorf("failed to create refund: %w", err)
			}
			result.RefundCreated = true
		}

		// Re-price open payables against the settled total.
		payables, err := s.payableRepo.ListOpenByRental(txCtx, rentalID)
		if err != nil {
			return fmt.Errorf("failed to load payables: %w", err)
		}
		for i := range payables {
			ap := &payables[i]
			var amount decimal.Decimal
			switch ap.Type {
			case model.PayableOwner:
				amount = actualTotal.Mul(ownerShare).Round(2)
			case model.PayableAgent:
				amount = actualTotal.Mul(agentShare).Round(2)
			default:
				continue
			}
			if !amount.Equal(ap.Amount) {
				ap.Amount = amount
				if err := s.payableRepo.Update(txCtx, ap); err != nil {
					return fmt.Errorf("failed to re-price payable: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return FinalizeResult{}, err
	}

	s.hub.Notify("rentals", "updated", rental.ID.String())
	s.hub.Notify("payables", "updated", "")
	return result, nil
}

// DeleteRental refuses to remove a rental with an invoice attached.
func (s *rentalService) DeleteRental(ctx context.Context, id string) error {
	rentalID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid rental id: %w", err)
	}

	rental, err := s.rentalRepo.FindByID(ctx, rentalID)
	if err != nil {
		return fmt.Errorf("rental not found: %w", err)
	}

	if _, err := s.invoiceRepo.FindByRental(ctx, rentalID); err == nil {
		return fmt.Errorf("rental has an invoice attached; delete the invoice first")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.rentalRepo.Delete(txCtx, rentalID); err != nil {
			return fmt.Errorf("failed to delete rental: %w", err)
		}
		if rental.Status == model.RentalActive {
			if err := s.vehicleRepo.UpdateStatus(txCtx, rental.VehicleID, model.VehicleAvailable); err != nil {
				return fmt.Errorf("failed to release vehicle: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.hub.Notify("rentals", "deleted", id)
	return nil
}

// --- Mapping ---

func toRentalResponse(r model.Rental) RentalResponse {
	resp := RentalResponse{
		ID:              r.ID.String(),
		VehicleID:       r.VehicleID.String(),
		ClientID:        r.ClientID.String(),
		StartDate:       r.StartDate.Format(time.RFC3339),
		EndDate:         r.EndDate.Format(time.RFC3339),
		DailyRate:       r.DailyRate.StringFixed(2),
		TotalAmount:     r.TotalAmount.StringFixed(2),
		Status:          r.Status,
		CommercialAgent: r.CommercialAgent,
	}
	if r.OriginalEndDate != nil {
		resp.OriginalEndDate = r.OriginalEndDate.Format(time.RFC3339)
	}
	if r.Vehicle != nil {
		resp.VehicleName = r.Vehicle.Name
	}
	if r.Client != nil {
		resp.ClientName = r.Client.Name
	}
	return resp
}
