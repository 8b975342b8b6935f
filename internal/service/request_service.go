package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sgflota/internal/model"
	"sgflota/internal/repository"
	ws "sgflota/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateBookingRequestRequest struct {
	VehicleID     string   `json:"vehicle_id"`
	ClientName    string   `json:"client_name" binding:"required"`
	ClientEmail   string   `json:"client_email"`
	ClientPhone   string   `json:"client_phone"`
	ClientAddress string   `json:"client_address"`
	StartDate     string   `json:"start_date" binding:"required"`
	EndDate       string   `json:"end_date"`
	Services      []string `json:"services"`
}

type BookingRequestResponse struct {
	ID            string   `json:"id"`
	VehicleID     string   `json:"vehicle_id,omitempty"`
	VehicleName   string   `json:"vehicle_name,omitempty"`
	ClientName    string   `json:"client_name"`
	ClientEmail   string   `json:"client_email,omitempty"`
	ClientPhone   string   `json:"client_phone,omitempty"`
	ClientAddress string   `json:"client_address,omitempty"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date,omitempty"`
	Services      []string `json:"services,omitempty"`
	Status        string   `json:"status"`
	CreatedAt     string   `json:"created_at"`
}

type CreateContactMessageRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message" binding:"required"`
}

type ContactMessageResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- Interface ---

// RequestService handles the public intake channel: booking requests and
// contact messages submitted without authentication, triaged by staff.
type RequestService interface {
	CreateBookingRequest(ctx context.Context, req CreateBookingRequestRequest) (BookingRequestResponse, error)
	ListBookingRequests(ctx context.Context, status string, page, limit int) ([]BookingRequestResponse, int64, error)
	UpdateBookingRequestStatus(ctx context.Context, id, status string) (BookingRequestResponse, error)
	CreateContactMessage(ctx context.Context, req CreateContactMessageRequest) (ContactMessageResponse, error)
	ListContactMessages(ctx context.Context, status string, page, limit int) ([]ContactMessageResponse, int64, error)
	UpdateContactMessageStatus(ctx context.Context, id, status string) (ContactMessageResponse, error)
}

type requestService struct {
	db  *gorm.DB
	hub *ws.Hub
}

func NewRequestService(db *gorm.DB, hub *ws.Hub) RequestService {
	return &requestService{db: db, hub: hub}
}

// --- Implementation ---

func (s *requestService) CreateBookingRequest(ctx context.Context, req CreateBookingRequestRequest) (BookingRequestResponse, error) {
	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return BookingRequestResponse{}, fmt.Errorf("invalid start_date: %w", err)
	}

	booking := model.BookingRequest{
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientPhone:   req.ClientPhone,
		ClientAddress: req.ClientAddress,
		StartDate:     start,
		Status:        model.RequestPending,
	}

	if req.EndDate != "" {
		end, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return BookingRequestResponse{}, fmt.Errorf("invalid end_date: %w", err)
		}
		if end.Before(start) {
			return BookingRequestResponse{}, fmt.Errorf("end date must be after or same as start date")
		}
		booking.EndDate = &end
	}

	// The vehicle reference is best-effort: the request still goes through
	// when the fleet entry cannot be resolved, keeping only the name.
	if req.VehicleID != "" {
		vehicleID, err := uuid.Parse(req.VehicleID)
		if err != nil {
			return BookingRequestResponse{}, fmt.Errorf("invalid vehicle_id: %w", err)
		}
		var vehicle model.Vehicle
		if err := repository.GetDB(ctx, s.db).First(&vehicle, "id = ?", vehicleID).Error; err == nil {
			booking.VehicleID = &vehicle.ID
			booking.VehicleName = vehicle.Name
		}
	}

	if len(req.Services) > 0 {
		blob, err := json.Marshal(req.Services)
		if err != nil {
			return BookingRequestResponse{}, fmt.Errorf("failed to encode services: %w", err)
		}
		booking.Services = string(blob)
	}

	if err := repository.GetDB(ctx, s.db).Create(&booking).Error; err != nil {
		return BookingRequestResponse{}, fmt.Errorf("failed to create booking request: %w", err)
	}

	s.hub.Notify("requests", "created", booking.ID.String())
	return toBookingRequestResponse(booking), nil
}

func (s *requestService) ListBookingRequests(ctx context.Context, status string, page, limit int) ([]BookingRequestResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	query := repository.GetDB(ctx, s.db).Model(&model.BookingRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count booking requests: %w", err)
	}

	var requests []model.BookingRequest
	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch booking requests: %w", err)
	}

	result := make([]BookingRequestResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, toBookingRequestResponse(r))
	}
	return result, total, nil
}

func (s *requestService) UpdateBookingRequestStatus(ctx context.Context, id, status string) (BookingRequestResponse, error) {
	if status != model.RequestAccepted && status != model.RequestRejected && status != model.RequestPending {
		return BookingRequestResponse{}, fmt.Errorf("invalid status %q", status)
	}
	requestID, err := uuid.Parse(id)
	if err != nil {
		return BookingRequestResponse{}, fmt.Errorf("invalid request id: %w", err)
	}

	var booking model.BookingRequest
	if err := repository.GetDB(ctx, s.db).First(&booking, "id = ?", requestID).Error; err != nil {
		return BookingRequestResponse{}, fmt.Errorf("booking request not found: %w", err)
	}

	booking.Status = status
	if err := repository.GetDB(ctx, s.db).Save(&booking).Error; err != nil {
		return BookingRequestResponse{}, fmt.Errorf("failed to update booking request: %w", err)
	}

	s.hub.Notify("requests", "updated", id)
	return toBookingRequestResponse(booking), nil
}

func (s *requestService) CreateContactMessage(ctx context.Context, req CreateContactMessageRequest) (ContactMessageResponse, error) {
	message := model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
		Status:  model.MessagePending,
	}
	if err := repository.GetDB(ctx, s.db).Create(&message).Error; err != nil {
		return ContactMessageResponse{}, fmt.Errorf("failed to create contact message: %w", err)
	}

	s.hub.Notify("messages", "created", message.ID.String())
	return toContactMessageResponse(message), nil
}

func (s *requestService) ListContactMessages(ctx context.Context, status string, page, limit int) ([]ContactMessageResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	query := repository.GetDB(ctx, s.db).Model(&model.ContactMessage{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contact messages: %w", err)
	}

	var messages []model.ContactMessage
	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&messages).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch contact messages: %w", err)
	}

	result := make([]ContactMessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, toContactMessageResponse(m))
	}
	return result, total, nil
}

func (s *requestService) UpdateContactMessageStatus(ctx context.Context, id, status string) (ContactMessageResponse, error) {
	if status != model.MessageAttended && status != model.MessagePending {
		return ContactMessageResponse{}, fmt.Errorf("invalid status %q", status)
	}
	messageID, err := uuid.Parse(id)
	if err != nil {
		return ContactMessageResponse{}, fmt.Errorf("invalid message id: %w", err)
	}

	var message model.ContactMessage
	if err := repository.GetDB(ctx, s.db).First(&message, "id = ?", messageID).Error; err != nil {
		return ContactMessageResponse{}, fmt.Errorf("contact message not found: %w", err)
	}

	message.Status = status
	if err := repository.GetDB(ctx, s.db).Save(&message).Error; err != nil {
		return ContactMessageResponse{}, fmt.Errorf("failed to update contact message: %w", err)
	}

	s.hub.Notify("messages", "updated", id)
	return toContactMessageResponse(message), nil
}

// --- Mapping ---

func toBookingRequestResponse(b model.BookingRequest) BookingRequestResponse {
	resp := BookingRequestResponse{
		ID:            b.ID.String(),
		VehicleName:   b.VehicleName,
		ClientName:    b.ClientName,
		ClientEmail:   b.ClientEmail,
		ClientPhone:   b.ClientPhone,
		ClientAddress: b.ClientAddress,
		StartDate:     b.StartDate.Format(time.RFC3339),
		Status:        b.Status,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
	if b.VehicleID != nil {
		resp.VehicleID = b.VehicleID.String()
	}
	if b.EndDate != nil {
		resp.EndDate = b.EndDate.Format(time.RFC3339)
	}
	if b.Services != "" {
		_ = json.Unmarshal([]byte(b.Services), &resp.Services)
	}
	return resp
}

func toContactMessageResponse(m model.ContactMessage) ContactMessageResponse {
	return ContactMessageResponse{
		ID:        m.ID.String(),
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Message:   m.Message,
		Status:    m.Status,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}
