package service

import (
	"context"
	"fmt"

	"sgflota/internal/model"
	"sgflota/internal/repository"

	"gorm.io/gorm"
)

// --- DTOs ---

type UpdateSettingsRequest struct {
	Name    *string `json:"name"`
	Logo    *string `json:"logo"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	TaxID   *string `json:"tax_id"`
	Website *string `json:"website"`
}

type SettingsResponse struct {
	Name    string `json:"name"`
	Logo    string `json:"logo,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
	Website string `json:"website,omitempty"`
}

// --- Interface ---

type SettingsService interface {
	GetSettings(ctx context.Context) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
}

type settingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) SettingsService {
	return &settingsService{db: db}
}

// --- Implementation ---

// load returns the singleton row, creating it with defaults on first access.
func (s *settingsService) load(ctx context.Context) (*model.CompanySettings, error) {
	var settings model.CompanySettings
	err := repository.GetDB(ctx, s.db).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	settings = model.CompanySettings{Name: "SGFlota"}
	if err := repository.GetDB(ctx, s.db).Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *settingsService) GetSettings(ctx context.Context) (SettingsResponse, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return SettingsResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return toSettingsResponse(*settings), nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return SettingsResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return SettingsResponse{}, fmt.Errorf("name cannot be empty")
		}
		settings.Name = *req.Name
	}
	if req.Logo != nil {
		settings.Logo = *req.Logo
	}
	if req.Address != nil {
		settings.Address = *req.Address
	}
	if req.Phone != nil {
		settings.Phone = *req.Phone
	}
	if req.Email != nil {
		settings.Email = *req.Email
	}
	if req.TaxID != nil {
		settings.TaxID = *req.TaxID
	}
	if req.Website != nil {
		settings.Website = *req.Website
	}

	if err := repository.GetDB(ctx, s.db).Save(settings).Error; err != nil {
		return SettingsResponse{}, fmt.Errorf("failed to update settings: %w", err)
	}
	return toSettingsResponse(*settings), nil
}

// --- Mapping ---

func toSettingsResponse(s model.CompanySettings) SettingsResponse {
	return SettingsResponse{
		Name:    s.Name,
		Logo:    s.Logo,
		Address: s.Address,
		Phone:   s.Phone,
		Email:   s.Email,
		TaxID:   s.TaxID,
		Website: s.Website,
	}
}
