package service

import (
	"context"
	"fmt"

	"sgflota/internal/model"
	"sgflota/internal/repository"
	ws "sgflota/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateVehicleRequest struct {
	Name      string `json:"name" binding:"required"`
	Type      string `json:"type" binding:"required"`
	Segment   string `json:"segment"`
	DailyRate string `json:"daily_rate" binding:"required"`
	Image     string `json:"image"`
	Plate     string `json:"plate" binding:"required"`
	Year      int    `json:"year" binding:"required"`
	Ownership string `json:"ownership"`
	OwnerName string `json:"owner_name"`
	OwnerDni  string `json:"owner_dni"`
}

type UpdateVehicleRequest struct {
	Name      *string `json:"name"`
	Type      *string `json:"type"`
	Segment   *string `json:"segment"`
	DailyRate *string `json:"daily_rate"`
	Image     *string `json:"image"`
	Status    *string `json:"status"`
	Plate     *string `json:"plate"`
	Year      *int    `json:"year"`
	Ownership *string `json:"ownership"`
	OwnerName *string `json:"owner_name"`
	OwnerDni  *string `json:"owner_dni"`
}

type VehicleResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Segment   string `json:"segment,omitempty"`
	DailyRate string `json:"daily_rate"`
	Image     string `json:"image,omitempty"`
	Status    string `json:"status"`
	Plate     string `json:"plate"`
	Year      int    `json:"year"`
	Ownership string `json:"ownership"`
	OwnerName string `json:"owner_name,omitempty"`
	OwnerDni  string `json:"owner_dni,omitempty"`
}

// --- Interface ---

type VehicleService interface {
	CreateVehicle(ctx context.Context, req CreateVehicleRequest) (VehicleResponse, error)
	GetVehicle(ctx context.Context, id string) (VehicleResponse, error)
	ListVehicles(ctx context.Context, status string, page, limit int) ([]VehicleResponse, int64, error)
	UpdateVehicle(ctx context.Context, id string, req UpdateVehicleRequest) (VehicleResponse, error)
	DeleteVehicle(ctx context.Context, id string) error
}

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
	rentalRepo  repository.RentalRepository
	hub         *ws.Hub
}

func NewVehicleService(vehicleRepo repository.VehicleRepository, rentalRepo repository.RentalRepository, hub *ws.Hub) VehicleService {
	return &vehicleService{vehicleRepo: vehicleRepo, rentalRepo: rentalRepo, hub: hub}
}

// --- Implementation ---

func validVehicleStatus(s string) bool {
	switch s {
	case model.VehicleAvailable, model.VehicleRented, model.VehicleMaintenance:
		return true
	}
	return false
}

func (s *vehicleService) CreateVehicle(ctx context.Context, req CreateVehicleRequest) (VehicleResponse, error) {
	rate, err := decimal.NewFromString(req.DailyRate)
	if err != nil {
		return VehicleResponse{}, fmt.Errorf("invalid daily_rate: %w", err)
	}
	if !rate.IsPositive() {
		return VehicleResponse{}, fmt.Errorf("daily_rate must be positive")
	}

	ownership := req.Ownership
	if ownership == "" {
		ownership = model.OwnershipOwn
	}
	if ownership != model.OwnershipOwn && ownership != model.OwnershipThirdParty {
		return VehicleResponse{}, fmt.Errorf("invalid ownership: %s", ownership)
	}
	if ownership == model.OwnershipThirdParty && req.OwnerName == "" {
		return VehicleResponse{}, fmt.Errorf("owner_name is required for third-party vehicles")
	}

	vehicle := model.Vehicle{
		Name:      req.Name,
		Type:      req.Type,
		Segment:   req.Segment,
		DailyRate: rate,
		Image:     req.Image,
		Status:    model.VehicleAvailable,
		Plate:     req.Plate,
		Year:      req.Year,
		Ownership: ownership,
		OwnerName: req.OwnerName,
		OwnerDni:  req.OwnerDni,
	}
	if err := s.vehicleRepo.Create(ctx, &vehicle); err != nil {
		return VehicleResponse{}, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.hub.Notify("vehicles", "created", vehicle.ID.String())
	return toVehicleResponse(vehicle), nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, id string) (VehicleResponse, error) {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return VehicleResponse{}, fmt.Errorf("invalid vehicle id: %w", err)
	}
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return VehicleResponse{}, fmt.Errorf("vehicle not found: %w", err)
	}
	return toVehicleResponse(*vehicle), nil
}

func (s *vehicleService) ListVehicles(ctx context.Context, status string, page, limit int) ([]VehicleResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	vehicles, total, err := s.vehicleRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch vehicles: %w", err)
	}

	result := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		result = append(result, toVehicleResponse(v))
	}
	return result, total, nil
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, id string, req UpdateVehicleRequest) (VehicleResponse, error) {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return VehicleResponse{}, fmt.Errorf("invalid vehicle id: %w", err)
	}
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return VehicleResponse{}, fmt.Errorf("vehicle not found: %w", err)
	}

	if req.Name != nil {
		vehicle.Name = *req.Name
	}
	if req.Type != nil {
		vehicle.Type = *req.Type
	}
	if req.Segment != nil {
		vehicle.Segment = *req.Segment
	}
	if req.DailyRate != nil {
		rate, err := decimal.NewFromString(*req.DailyRate)
		if err != nil {
			return VehicleResponse{}, fmt.Errorf("invalid daily_rate: %w", err)
		}
		if !rate.IsPositive() {
			return VehicleResponse{}, fmt.Errorf("daily_rate must be positive")
		}
		vehicle.DailyRate = rate
	}
	if req.Image != nil {
		vehicle.Image = *req.Image
	}
	if req.Status != nil {
		if !validVehicleStatus(*req.Status) {
			return VehicleResponse{}, fmt.Errorf("invalid status: %s", *req.Status)
		}
		// A vehicle on an active rental stays Rentado.
		if vehicle.Status == model.VehicleRented && *req.Status != model.VehicleRented {
			active, err := s.rentalRepo.CountByVehicleAndStatus(ctx, vehicleID, model.RentalActive)
			if err != nil {
				return VehicleResponse{}, fmt.Errorf("failed to check rentals: %w", err)
			}
			if active > 0 {
				return VehicleResponse{}, fmt.Errorf("vehicle has an active rental")
			}
		}
		vehicle.Status = *req.Status
	}
	if req.Plate != nil {
		vehicle.Plate = *req.Plate
	}
	if req.Year != nil {
		vehicle.Year = *req.Year
	}
	if req.Ownership != nil {
		if *req.Ownership != model.OwnershipOwn && *req.Ownership != model.OwnershipThirdParty {
			return VehicleResponse{}, fmt.Errorf("invalid ownership: %s", *req.Ownership)
		}
		vehicle.Ownership = *req.Ownership
	}
	if req.OwnerName != nil {
		vehicle.OwnerName = *req.OwnerName
	}
	if req.OwnerDni != nil {
		vehicle.OwnerDni = *req.OwnerDni
	}

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return VehicleResponse{}, fmt.Errorf("failed to update vehicle: %w", err)
	}

	s.hub.Notify("vehicles", "updated", vehicle.ID.String())
	return toVehicleResponse(*vehicle), nil
}

// DeleteVehicle refuses while an active rental references the vehicle.
func (s *vehicleService) DeleteVehicle(ctx context.Context, id string) error {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid vehicle id: %w", err)
	}
	active, err := s.rentalRepo.CountByVehicleAndStatus(ctx, vehicleID, model.RentalActive)
	if err != nil {
		return fmt.Errorf("failed to check rentals: %w", err)
	}
	if active > 0 {
		return fmt.Errorf("vehicle has an active rental and cannot be deleted")
	}
	if err := s.vehicleRepo.Delete(ctx, vehicleID); err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	s.hub.Notify("vehicles", "deleted", id)
	return nil
}

// --- Mapping ---

func toVehicleResponse(v model.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:        v.ID.String(),
		Name:      v.Name,
		Type:      v.Type,
		Segment:   v.Segment,
		DailyRate: v.DailyRate.StringFixed(2),
		Image:     v.Image,
		Status:    v.Status,
		Plate:     v.Plate,
		Year:      v.Year,
		Ownership: v.Ownership,
		OwnerName: v.OwnerName,
		OwnerDni:  v.OwnerDni,
	}
}
