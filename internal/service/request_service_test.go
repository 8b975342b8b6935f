package service

import (
	"context"
	"testing"
	"time"

	"sgflota/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRequestService(db *gorm.DB) RequestService {
	return NewRequestService(db, nil)
}

func TestCreateBookingRequest_SnapshotsVehicle(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)
	vehicle := createTestVehicle(t, db, "1234-ABC", model.OwnershipOwn)

	resp, err := svc.CreateBookingRequest(context.Background(), CreateBookingRequestRequest{
		VehicleID:   vehicle.ID.String(),
		ClientName:  "Lucía Fernández",
		ClientEmail: "lucia@example.com",
		StartDate:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC).Format(time.RFC3339),
		EndDate:     time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC).Format(time.RFC3339),
		Services:    []string{"Conductor", "Seguro a todo riesgo"},
	})
	require.NoError(t, err)

	assert.Equal(t, model.RequestPending, resp.Status)
	assert.Equal(t, vehicle.ID.String(), resp.VehicleID)
	assert.Equal(t, "Toyota Corolla", resp.VehicleName)
	assert.Equal(t, []string{"Conductor", "Seguro a todo riesgo"}, resp.Services)

	var stored model.BookingRequest
	require.NoError(t, db.First(&stored, "client_name = ?", "Lucía Fernández").Error)
	assert.Equal(t, "Toyota Corolla", stored.VehicleName)
	assert.JSONEq(t, `["Conductor","Seguro a todo riesgo"]`, stored.Services)
}

func TestCreateBookingRequest_UnknownVehicleKeepsRequest(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)

	resp, err := svc.CreateBookingRequest(context.Background(), CreateBookingRequestRequest{
		VehicleID:  "3f0b9a1e-0000-4000-8000-000000000000",
		ClientName: "Marcos Gil",
		StartDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
	})
	require.NoError(t, err)

	assert.Empty(t, resp.VehicleID)
	assert.Empty(t, resp.VehicleName)
	assert.Equal(t, model.RequestPending, resp.Status)
}

func TestCreateBookingRequest_RejectsEndBeforeStart(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)

	_, err := svc.CreateBookingRequest(context.Background(), CreateBookingRequestRequest{
		ClientName: "Marcos Gil",
		StartDate:  time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		EndDate:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end date")

	var count int64
	require.NoError(t, db.Model(&model.BookingRequest{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateBookingRequestStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)

	created, err := svc.CreateBookingRequest(context.Background(), CreateBookingRequestRequest{
		ClientName: "Lucía Fernández",
		StartDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateBookingRequestStatus(context.Background(), created.ID, model.RequestAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.RequestAccepted, updated.Status)

	_, err = svc.UpdateBookingRequestStatus(context.Background(), created.ID, "Archivado")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")

	var stored model.BookingRequest
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, model.RequestAccepted, stored.Status)
}

func TestListBookingRequests_FiltersByStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)

	for _, name := range []string{"Cliente Uno", "Cliente Dos", "Cliente Tres"} {
		_, err := svc.CreateBookingRequest(context.Background(), CreateBookingRequestRequest{
			ClientName: name,
			StartDate:  time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		})
		require.NoError(t, err)
	}

	all, total, err := svc.ListBookingRequests(context.Background(), "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)

	_, err = svc.UpdateBookingRequestStatus(context.Background(), all[0].ID, model.RequestRejected)
	require.NoError(t, err)

	pending, total, err := svc.ListBookingRequests(context.Background(), model.RequestPending, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, pending, 2)
}

func TestContactMessageLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(db)

	created, err := svc.CreateContactMessage(context.Background(), CreateContactMessageRequest{
		Name:    "Elena Vidal",
		Email:   "elena@example.com",
		Message: "¿Tienen furgonetas disponibles en agosto?",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MessagePending, created.Status)

	updated, err := svc.UpdateContactMessageStatus(context.Background(), created.ID, model.MessageAttended)
	require.NoError(t, err)
	assert.Equal(t, model.MessageAttended, updated.Status)

	_, err = svc.UpdateContactMessageStatus(context.Background(), created.ID, "Cerrado")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")

	attended, total, err := svc.ListContactMessages(context.Background(), model.MessageAttended, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, attended, 1)
	assert.Equal(t, "Elena Vidal", attended[0].Name)
}
