package service

import (
	"context"
	"fmt"

	"sgflota/internal/model"
	"sgflota/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreatePartnerRequest struct {
	Name  string `json:"name" binding:"required"`
	Dni   string `json:"dni" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type UpdatePartnerRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Email  *string `json:"email"`
	Status *string `json:"status"`
}

type PartnerResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Dni    string `json:"dni"`
	Phone  string `json:"phone,omitempty"`
	Email  string `json:"email,omitempty"`
	Status string `json:"status"`
}

// --- Interface ---

// PartnerService manages the vehicle owner and commercial agent registries.
type PartnerService interface {
	CreateOwner(ctx context.Context, req CreatePartnerRequest) (PartnerResponse, error)
	ListOwners(ctx context.Context, page, limit int) ([]PartnerResponse, int64, error)
	UpdateOwner(ctx context.Context, id string, req UpdatePartnerRequest) (PartnerResponse, error)
	DeleteOwner(ctx context.Context, id string) error

	CreateAgent(ctx context.Context, req CreatePartnerRequest) (PartnerResponse, error)
	ListAgents(ctx context.Context, page, limit int) ([]PartnerResponse, int64, error)
	UpdateAgent(ctx context.Context, id string, req UpdatePartnerRequest) (PartnerResponse, error)
	DeleteAgent(ctx context.Context, id string) error
}

type partnerService struct {
	db *gorm.DB
}

func NewPartnerService(db *gorm.DB) PartnerService {
	return &partnerService{db: db}
}

// --- Owners ---

func (s *partnerService) CreateOwner(ctx context.Context, req CreatePartnerRequest) (PartnerResponse, error) {
	owner := model.Owner{
		Name:   req.Name,
		Dni:    req.Dni,
		Phone:  req.Phone,
		Email:  req.Email,
		Status: model.StatusActive,
	}
	if err := repository.GetDB(ctx, s.db).Create(&owner).Error; err != nil {
		return PartnerResponse{}, fmt.Errorf("failed to create owner: %w", err)
	}
	return PartnerResponse{ID: owner.ID.String(), Name: owner.Name, Dni: owner.Dni, Phone: owner.Phone, Email: owner.Email, Status: owner.Status}, nil
}

func (s *partnerService) ListOwners(ctx context.Context, page, limit int) ([]PartnerResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	query := repository.GetDB(ctx, s.db).Model(&model.Owner{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count owners: %w", err)
	}

	var owners []model.Owner
	offset := (page - 1) * limit
	if err := query.Order("name asc").Offset(offset).Limit(limit).Find(&owners).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch owners: %w", err)
	}

	result := make([]PartnerResponse, 0, len(owners))
	for _, o := range owners {
		result = append(result, PartnerResponse{ID: o.ID.String(), Name: o.Name, Dni: o.Dni, Phone: o.Phone, Email: o.Email, Status: o.Status})
	}
	return result, total, nil
}

func (s *partnerService) UpdateOwner(ctx context.Context, id string, req UpdatePartnerRequest) (PartnerResponse, error) {
	ownerID, err := uuid.Parse(id)
	if err != nil {
		return PartnerResponse{}, fmt.Errorf("invalid owner id: %w", err)
	}
	var owner model.Owner
	if err := repository.GetDB(ctx, s.db).First(&owner, "id = ?", ownerID).Error; err != nil {
		return PartnerResponse{}, fmt.Errorf("owner not found: %w", err)
	}

	if req.Status != nil && *req.Status != model.StatusActive && *req.Status != model.StatusInactive {
		return PartnerResponse{}, fmt.Errorf("invalid status: %s", *req.Status)
	}
	applyPartnerUpdate(req, &owner.Name, &owner.Phone, &owner.Email, &owner.Status)

	if err := repository.GetDB(ctx, s.db).Save(&owner).Error; err != nil {
		return PartnerResponse{}, fmt.Errorf("failed to update owner: %w", err)
	}
	return PartnerResponse{ID: owner.ID.String(), Name: owner.Name, Dni: owner.Dni, Phone: owner.Phone, Email: owner.Email, Status: owner.Status}, nil
}

// DeleteOwner refuses while a vehicle carries the owner's dni.
func (s *partnerService) DeleteOwner(ctx context.Context, id string) error {
	ownerID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid owner id: %w", err)
	}
	db := repository.GetDB(ctx, s.db)
	var owner model.Owner
	if err := db.First(&owner, "id = ?", ownerID).Error; err != nil {
		return fmt.Errorf("owner not found: %w", err)
	}
	var vehicles int64
	if err := db.Model(&model.Vehicle{}).Where("owner_dni = ?", owner.Dni).Count(&vehicles).Error; err != nil {
		return fmt.Errorf("failed to check vehicles: %w", err)
	}
	if vehicles > 0 {
		return fmt.Errorf("owner has registered vehicles and cannot be deleted")
	}
	return db.Delete(&model.Owner{}, "id = ?", ownerID).Error
}

// --- Agents ---

func (s *partnerService) CreateAgent(ctx context.Context, req CreatePartnerRequest) (PartnerResponse, error) {
	agent := model.CommercialAgent{
		Name:   req.Name,
		Dni:    req.Dni,
		Phone:  req.Phone,
		Email:  req.Email,
		Status: model.StatusActive,
	}
	if err := repository.GetDB(ctx, s.db).Create(&agent).Error; err != nil {
		return PartnerResponse{}, fmt.Errorf("failed to create agent: %w", err)
	}
	return PartnerResponse{ID: agent.ID.String(), Name: agent.Name, Dni: agent.Dni, Phone: agent.Phone, Email: agent.Email, Status: agent.Status}, nil
}

func (s *partnerService) ListAgents(ctx context.Context, page, limit int) ([]PartnerResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	query := repository.GetDB(ctx, s.db).Model(&model.CommercialAgent{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count agents: %w", err)
	}

	var agents []model.CommercialAgent
	offset := (page - 1) * limit
	if err := query.Order("name asc").Offset(offset).Limit(limit).Find(&agents).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch agents: %w", err)
	}

	result := make([]PartnerResponse, 0, len(agents))
	for _, a := range agents {
		result = append(result, PartnerResponse{ID: a.ID.String(), Name: a.Name, Dni: a.Dni, Phone: a.Phone, Email: a.Email, Status: a.Status})
	}
	return result, total, nil
}

func (s *partnerService) UpdateAgent(ctx context.Context, id string, req UpdatePartnerRequest) (PartnerResponse, error) {
	agentID, err := uuid.Parse(id)
	if err != nil {
		return PartnerResponse{}, fmt.Errorf("invalid agent id: %w", err)
	}
	var agent model.CommercialAgent
	if err := repository.GetDB(ctx, s.db).First(&agent, "id = ?", agentID).Error; err != nil {
		return PartnerResponse{}, fmt.Errorf("agent not found: %w", err)
	}

	if req.Status != nil && *req.Status != model.StatusActive && *req.Status != model.StatusInactive {
		return PartnerResponse{}, fmt.Errorf("invalid status: %s", *req.Status)
	}
	applyPartnerUpdate(req, &agent.Name, &agent.Phone, &agent.Email, &agent.Status)

	if err := repository.GetDB(ctx, s.db).Save(&agent).Error; err != nil {
		return PartnerResponse{}, fmt.Errorf("failed to update agent: %w", err)
	}
	return PartnerResponse{ID: agent.ID.String(), Name: agent.Name, Dni: agent.Dni, Phone: agent.Phone, Email: agent.Email, Status: agent.Status}, nil
}

func (s *partnerService) DeleteAgent(ctx context.Context, id string) error {
	agentID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid agent id: %w", err)
	}
	return repository.GetDB(ctx, s.db).Delete(&model.CommercialAgent{}, "id = ?", agentID).Error
}

func applyPartnerUpdate(req UpdatePartnerRequest, name, phone, email, status *string) {
	if req.Name != nil && *req.Name != "" {
		*name = *req.Name
	}
	if req.Phone != nil {
		*phone = *req.Phone
	}
	if req.Email != nil {
		*email = *req.Email
	}
	if req.Status != nil {
		*status = *req.Status
	}
}
