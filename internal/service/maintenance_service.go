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
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateMaintenanceRequest struct {
	VehicleID   string `json:"vehicle_id" binding:"required"`
	Description string `json:"description" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Cost        string `json:"cost"`
	Type        string `json:"type"`
}

type UpdateMaintenanceRequest struct {
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Cost        *string `json:"cost"`
	Status      *string `json:"status"`
	Type        *string `json:"type"`
}

type MaintenanceResponse struct {
	ID          string `json:"id"`
	VehicleID   string `json:"vehicle_id"`
	VehicleName string `json:"vehicle_name,omitempty"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Cost        string `json:"cost"`
	Status      string `json:"status"`
	Type        string `json:"type,omitempty"`
}

// --- Interface ---

type MaintenanceService interface {
	CreateMaintenance(ctx context.Context, req CreateMaintenanceRequest) (MaintenanceResponse, error)
	GetMaintenance(ctx context.Context, id string) (MaintenanceResponse, error)
	ListMaintenances(ctx context.Context, vehicleID, status string, page, limit int) ([]MaintenanceResponse, int64, error)
	UpdateMaintenance(ctx context.Context, id string, req UpdateMaintenanceRequest) (MaintenanceResponse, error)
	DeleteMaintenance(ctx context.Context, id string) error
}

type maintenanceService struct {
	db        *gorm.DB
	txManager repository.TransactionManager
	hub       *ws.Hub
}

func NewMaintenanceService(db *gorm.DB, txManager repository.TransactionManager, hub *ws.Hub) MaintenanceService {
	return &maintenanceService{db: db, txManager: txManager, hub: hub}
}

// --- Implementation ---

func validMaintenanceStatus(s string) bool {
	switch s {
	case model.MaintenanceScheduled, model.MaintenanceInProgress, model.MaintenanceCompleted:
		return true
	}
	return false
}

func (s *maintenanceService) CreateMaintenance(ctx context.Context, req CreateMaintenanceRequest) (MaintenanceResponse, error) {
	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return MaintenanceResponse{}, fmt.Errorf("invalid vehicle_id: %w", err)
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return MaintenanceResponse{}, fmt.Errorf("invalid date: %w", err)
	}
	cost := decimal.Zero
	if req.Cost != "" {
		cost, err = decimal.NewFromString(req.Cost)
		if err != nil {
			return MaintenanceResponse{}, fmt.Errorf("invalid cost: %w", err)
		}
		if cost.IsNegative() {
			return MaintenanceResponse{}, fmt.Errorf("cost cannot be negative")
		}
	}

	var vehicle model.Vehicle
	if err := repository.GetDB(ctx, s.db).First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		return MaintenanceResponse{}, fmt.Errorf("vehicle not found: %w", err)
	}
	if vehicle.Status == model.VehicleRented {
		return MaintenanceResponse{}, fmt.Errorf("vehicle %s is rented", vehicle.Plate)
	}

	job := model.Maintenance{
		VehicleID:   vehicleID,
		Description: req.Description,
		Date:        date,
		Cost:        cost,
		Status:      model.MaintenanceScheduled,
		Type:        req.Type,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		db := repository.GetDB(txCtx, s.db)
		if err := db.Create(&job).Error; err != nil {
			return fmt.Errorf("failed to create maintenance: %w", err)
		}
		return db.Model(&model.Vehicle{}).Where("id = ?", vehicleID).
			Update("status", model.VehicleMaintenance).Error
	})
	if err != nil {
		return MaintenanceResponse{}, err
	}

	s.hub.Notify("maintenances", "created", job.ID.String())
	s.hub.Notify("vehicles", "updated", vehicleID.String())
	return toMaintenanceResponse(job), nil
}

func (s *maintenanceService) GetMaintenance(ctx context.Context, id string) (MaintenanceResponse, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return MaintenanceResponse{}, fmt.Errorf("invalid maintenance id: %w", err)
	}
	var job model.Maintenance
	if err := repository.GetDB(ctx, s.db).Preload("Vehicle").First(&job, "id = ?", jobID).Error; err != nil {
		return MaintenanceResponse{}, fmt.Errorf("maintenance not found: %w", err)
	}
	return toMaintenanceResponse(job), nil
}

func (s *maintenanceService) ListMaintenances(ctx context.Context, vehicleID, status string, page, limit int) ([]MaintenanceResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	query := repository.GetDB(ctx, s.db).Model(&model.Maintenance{})
	if vehicleID != "" {
		query = query.Where("vehicle_id = ?", vehicleID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count maintenances: %w", err)
	}

	var jobs []model.Maintenance
	offset := (page - 1) * limit
	if err := query.Preload("Vehicle").Order("date desc").Offset(offset).Limit(limit).Find(&jobs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch maintenances: %w", err)
	}

	result := make([]MaintenanceResponse, 0, len(jobs))
	for _, j := range jobs {
		result = append(result, toMaintenanceResponse(j))
	}
	return result, total, nil
}

func (s *maintenanceService) UpdateMaintenance(ctx context.Context, id string, req UpdateMaintenanceRequest) (MaintenanceResponse, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return MaintenanceResponse{}, fmt.Errorf("invalid maintenance id: %w", err)
	}
	var job model.Maintenance
	if err := repository.GetDB(ctx, s.db).First(&job, "id = ?", jobID).Error; err != nil {
		return MaintenanceResponse{}, fmt.Errorf("maintenance not found: %w", err)
	}

	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Date != nil {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return MaintenanceResponse{}, fmt.Errorf("invalid date: %w", err)
		}
		job.Date = date
	}
	if req.Cost != nil {
		cost, err := decimal.NewFromString(*req.Cost)
		if err != nil {
			return MaintenanceResponse{}, fmt.Errorf("invalid cost: %w", err)
		}
		if cost.IsNegative() {
			return MaintenanceResponse{}, fmt.Errorf("cost cannot be negative")
		}
		job.Cost = cost
	}
	if req.Type != nil {
		job.Type = *req.Type
	}

	completing := false
	if req.Status != nil {
		if !validMaintenanceStatus(*req.Status) {
			return MaintenanceResponse{}, fmt.Errorf("invalid status: %s", *req.Status)
		}
		completing = job.Status != model.MaintenanceCompleted && *req.Status == model.MaintenanceCompleted
		job.Status = *req.Status
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		db := repository.GetDB(txCtx, s.db)
		if err := db.Save(&job).Error; err != nil {
			return fmt.Errorf("failed to update maintenance: %w", err)
		}
		// The vehicle returns to service only when no other job stays open.
		if completing {
			var open int64
			if err := db.Model(&model.Maintenance{}).
				Where("vehicle_id = ? AND status <> ? AND id <> ?", job.VehicleID, model.MaintenanceCompleted, job.ID).
				Count(&open).Error; err != nil {
				return fmt.Errorf("failed to check open jobs: %w", err)
			}
			if open == 0 {
				return db.Model(&model.Vehicle{}).
					Where("id = ? AND status = ?", job.VehicleID, model.VehicleMaintenance).
					Update("status", model.VehicleAvailable).Error
			}
		}
		return nil
	})
	if err != nil {
		return MaintenanceResponse{}, err
	}

	s.hub.Notify("maintenances", "updated", job.ID.String())
	return toMaintenanceResponse(job), nil
}

func (s *maintenanceService) DeleteMaintenance(ctx context.Context, id string) error {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid maintenance id: %w", err)
	}
	var job model.Maintenance
	if err := repository.GetDB(ctx, s.db).First(&job, "id = ?", jobID).Error; err != nil {
		return fmt.Errorf("maintenance not found: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		db := repository.GetDB(txCtx, s.db)
		if err := db.Delete(&model.Maintenance{}, "id = ?", jobID).Error; err != nil {
			return fmt.Errorf("failed to delete maintenance: %w", err)
		}
		var open int64
		if err := db.Model(&model.Maintenance{}).
			Where("vehicle_id = ? AND status <> ?", job.VehicleID, model.MaintenanceCompleted).
			Count(&open).Error; err != nil {
			return fmt.Errorf("failed to check open jobs: %w", err)
		}
		if open == 0 {
			return db.Model(&model.Vehicle{}).
				Where("id = ? AND status = ?", job.VehicleID, model.VehicleMaintenance).
				Update("status", model.VehicleAvailable).Error
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.hub.Notify("maintenances", "deleted", id)
	return nil
}

// --- Mapping ---

func toMaintenanceResponse(m model.Maintenance) MaintenanceResponse {
	resp := MaintenanceResponse{
		ID:          m.ID.String(),
		VehicleID:   m.VehicleID.String(),
		Description: m.Description,
		Date:        m.Date.Format(time.RFC3339),
		Cost:        m.Cost.StringFixed(2),
		Status:      m.Status,
		Type:        m.Type,
	}
	if m.Vehicle != nil {
		resp.VehicleName = m.Vehicle.Name
	}
	return resp
}
