package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"sgflota/internal/model"
	"sgflota/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Dni     string `json:"dni" binding:"required"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Dni     *string `json:"dni"`
}

type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Dni       string    `json:"dni"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Interface ---

type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientRequest) (ClientResponse, error)
	GetClient(ctx context.Context, id string) (ClientResponse, error)
	ListClients(ctx context.Context, search string, page, limit int) ([]ClientResponse, int64, error)
	UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (ClientResponse, error)
	DeleteClient(ctx context.Context, id string) error
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

// --- Implementation ---

func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest) (ClientResponse, error) {
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return ClientResponse{}, fmt.Errorf("invalid email format")
		}
	}

	client := model.Client{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Dni:     req.Dni,
	}
	if err := repository.GetDB(ctx, s.db).Create(&client).Error; err != nil {
		return ClientResponse{}, fmt.Errorf("failed to create client: %w", err)
	}
	return toClientResponse(client), nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (ClientResponse, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("invalid client id: %w", err)
	}
	var client model.Client
	if err := repository.GetDB(ctx, s.db).First(&client, "id = ?", clientID).Error; err != nil {
		return ClientResponse{}, fmt.Errorf("client not found: %w", err)
	}
	return toClientResponse(client), nil
}

func (s *clientService) ListClients(ctx context.Context, search string, page, limit int) ([]ClientResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	query := repository.GetDB(ctx, s.db).Model(&model.Client{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR dni ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	var clients []model.Client
	offset := (page - 1) * limit
	if err := query.Order("name asc").Offset(offset).Limit(limit).Find(&clients).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch clients: %w", err)
	}

	result := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		result = append(result, toClientResponse(c))
	}
	return result, total, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (ClientResponse, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("invalid client id: %w", err)
	}
	var client model.Client
	if err := repository.GetDB(ctx, s.db).First(&client, "id = ?", clientID).Error; err != nil {
		return ClientResponse{}, fmt.Errorf("client not found: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return ClientResponse{}, fmt.Errorf("name cannot be empty")
		}
		client.Name = *req.Name
	}
	if req.Email != nil {
		if *req.Email != "" {
			if _, err := mail.ParseAddress(*req.Email); err != nil {
				return ClientResponse{}, fmt.Errorf("invalid email format")
			}
		}
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.Dni != nil {
		if *req.Dni == "" {
			return ClientResponse{}, fmt.Errorf("dni cannot be empty")
		}
		client.Dni = *req.Dni
	}

	if err := repository.GetDB(ctx, s.db).Save(&client).Error; err != nil {
		return ClientResponse{}, fmt.Errorf("failed to update client: %w", err)
	}
	return toClientResponse(client), nil
}

// DeleteClient refuses while rentals or invoices reference the client.
func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid client id: %w", err)
	}

	db := repository.GetDB(ctx, s.db)
	var rentals int64
	if err := db.Model(&model.Rental{}).Where("client_id = ?", clientID).Count(&rentals).Error; err != nil {
		return fmt.Errorf("failed to check rentals: %w", err)
	}
	if rentals > 0 {
		return fmt.Errorf("client has rentals and cannot be deleted")
	}
	var invoices int64
	if err := db.Model(&model.Invoice{}).Where("client_id = ?", clientID).Count(&invoices).Error; err != nil {
		return fmt.Errorf("failed to check invoices: %w", err)
	}
	if invoices > 0 {
		return fmt.Errorf("client has invoices and cannot be deleted")
	}

	return db.Delete(&model.Client{}, "id = ?", clientID).Error
}

// --- Mapping ---

func toClientResponse(c model.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Dni:       c.Dni,
		CreatedAt: c.CreatedAt,
	}
}
