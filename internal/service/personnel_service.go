package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sgflota/internal/model"
	"sgflota/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreatePersonnelRequest struct {
	Name          string `json:"name" binding:"required"`
	Dni           string `json:"dni" binding:"required"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Role          string `json:"role" binding:"required"`
	LicenseNumber string `json:"license_number"`
	Salary        string `json:"salary"`
}

type UpdatePersonnelRequest struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Role          *string `json:"role"`
	LicenseNumber *string `json:"license_number"`
	Salary        *string `json:"salary"`
	Status        *string `json:"status"`
}

type PersonnelResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Dni           string `json:"dni"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"role"`
	LicenseNumber string `json:"license_number,omitempty"`
	Salary        string `json:"salary"`
	Status        string `json:"status"`
}

type CreateDriverPaymentRequest struct {
	PersonnelID string `json:"personnel_id" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Date        string `json:"date"`
	Concept     string `json:"concept" binding:"required"`
	Notes       string `json:"notes"`
}

type DriverPaymentResponse struct {
	ID            string `json:"id"`
	PersonnelID   string `json:"personnel_id"`
	PersonnelName string `json:"personnel_name,omitempty"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	Concept       string `json:"concept"`
	Notes         string `json:"notes,omitempty"`
}

type RunPayrollRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required"`
}

// payrollEntry is one person's line inside a payroll snapshot.
type payrollEntry struct {
	PersonnelID string `json:"personnel_id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Salary      string `json:"salary"`
}

type PayrollResponse struct {
	ID          string         `json:"id"`
	Month       int            `json:"month"`
	Year        int            `json:"year"`
	TotalAmount string         `json:"total_amount"`
	Status      string         `json:"status"`
	Entries     []payrollEntry `json:"entries,omitempty"`
}

// --- Interface ---

type PersonnelService interface {
	CreatePersonnel(ctx context.Context, req CreatePersonnelRequest) (PersonnelResponse, error)
	GetPersonnel(ctx context.Context, id string) (PersonnelResponse, error)
	ListPersonnel(ctx context.Context, role, status string, page, limit int) ([]PersonnelResponse, int64, error)
	UpdatePersonnel(ctx context.Context, id string, req UpdatePersonnelRequest) (PersonnelResponse, error)
	DeletePersonnel(ctx context.Context, id string) error

	CreateDriverPayment(ctx context.Context, req CreateDriverPaymentRequest) (DriverPaymentResponse, error)
	ListDriverPayments(ctx context.Context, personnelID string, page, limit int) ([]DriverPaymentResponse, int64, error)
	DeleteDriverPayment(ctx context.Context, id string) error

	RunPayroll(ctx context.Context, req RunPayrollRequest) (PayrollResponse, error)
	ListPayrolls(ctx context.Context, page, limit int) ([]PayrollResponse, int64, error)
}

type personnelService struct {
	db        *gorm.DB
	txManager repository.TransactionManager
}

func NewPersonnelService(db *gorm.DB, txManager repository.TransactionManager) PersonnelService {
	return &personnelService{db: db, txManager: txManager}
}

// --- Personnel ---

func validPersonnelRole(r string) bool {
	switch r {
	case model.RoleDriver, model.RoleAdmin, model.RoleMechanic, model.RoleOther:
		return true
	}
	return false
}

func (s *personnelService) CreatePersonnel(ctx context.Context, req CreatePersonnelRequest) (PersonnelResponse, error) {
	if !validPersonnelRole(req.Role) {
		return PersonnelResponse{}, fmt.Errorf("invalid role: %s", req.Role)
	}
	if req.Role == model.RoleDriver && req.LicenseNumber == "" {
		return PersonnelResponse{}, fmt.Errorf("license_number is required for drivers")
	}
	salary := decimal.Zero
	if req.Salary != "" {
		var err error
		salary, err = decimal.NewFromString(req.Salary)
		if err != nil {
			return PersonnelResponse{}, fmt.Errorf("invalid salary: %w", err)
		}
		if salary.IsNegative() {
			return PersonnelResponse{}, fmt.Errorf("salary cannot be negative")
		}
	}

	person := model.Personnel{
		Name:          req.Name,
		Dni:           req.Dni,
		Phone:         req.Phone,
		Email:         req.Email,
		Role:          req.Role,
		LicenseNumber: req.LicenseNumber,
		Salary:        salary,
		Status:        model.StatusActive,
	}
	if err := repository.GetDB(ctx, s.db).Create(&person).Error; err != nil {
		return PersonnelResponse{}, fmt.Errorf("failed to create personnel: %w", err)
	}
	return toPersonnelResponse(person), nil
}

func (s *personnelService) GetPersonnel(ctx context.Context, id string) (PersonnelResponse, error) {
	personID, err := uuid.Parse(id)
	if err != nil {
		return PersonnelResponse{}, fmt.Errorf("invalid personnel id: %w", err)
	}
	var person model.Personnel
	if err := repository.GetDB(ctx, s.db).First(&person, "id = ?", personID).Error; err != nil {
		return PersonnelResponse{}, fmt.Errorf("personnel not found: %w", err)
	}
	return toPersonnelResponse(person), nil
}

func (s *personnelService) ListPersonnel(ctx context.Context, role, status string, page, limit int) ([]PersonnelResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	query := repository.GetDB(ctx, s.db).Model(&model.Personnel{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count personnel: %w", err)
	}

	var people []model.Personnel
	offset := (page - 1) * limit
	if err := query.Order("name asc").Offset(offset).Limit(limit).Find(&people).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch personnel: %w", err)
	}

	result := make([]PersonnelResponse, 0, len(people))
	for _, p := range people {
		result = append(result, toPersonnelResponse(p))
	}
	return result, total, nil
}

func (s *personnelService) UpdatePersonnel(ctx context.Context, id string, req UpdatePersonnelRequest) (PersonnelResponse, error) {
	personID, err := uuid.Parse(id)
	if err != nil {
		return PersonnelResponse{}, fmt.Errorf("invalid personnel id: %w", err)
	}
	var person model.Personnel
	if err := repository.GetDB(ctx, s.db).First(&person, "id = ?", personID).Error; err != nil {
		return PersonnelResponse{}, fmt.Errorf("personnel not found: %w", err)
	}

	if req.Name != nil {
		person.Name = *req.Name
	}
	if req.Phone != nil {
		person.Phone = *req.Phone
	}
	if req.Email != nil {
		person.Email = *req.Email
	}
	if req.Role != nil {
		if !validPersonnelRole(*req.Role) {
			return PersonnelResponse{}, fmt.Errorf("invalid role: %s", *req.Role)
		}
		person.Role = *req.Role
	}
	if req.LicenseNumber != nil {
		person.LicenseNumber = *req.LicenseNumber
	}
	if req.Salary != nil {
		salary, err := decimal.NewFromString(*req.Salary)
		if err != nil {
			return PersonnelResponse{}, fmt.Errorf("invalid salary: %w", err)
		}
		if salary.IsNegative() {
			return PersonnelResponse{}, fmt.Errorf("salary cannot be negative")
		}
		person.Salary = salary
	}
	if req.Status != nil {
		if *req.Status != model.StatusActive && *req.Status != model.StatusInactive {
			return PersonnelResponse{}, fmt.Errorf("invalid status: %s", *req.Status)
		}
		person.Status = *req.Status
	}

	if err := repository.GetDB(ctx, s.db).Save(&person).Error; err != nil {
		return PersonnelResponse{}, fmt.Errorf("failed to update personnel: %w", err)
	}
	return toPersonnelResponse(person), nil
}

// DeletePersonnel refuses while driver payments reference the person.
func (s *personnelService) DeletePersonnel(ctx context.Context, id string) error {
	personID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid personnel id: %w", err)
	}
	db := repository.GetDB(ctx, s.db)
	var payments int64
	if err := db.Model(&model.DriverPayment{}).Where("personnel_id = ?", personID).Count(&payments).Error; err != nil {
		return fmt.Errorf("failed to check payments: %w", err)
	}
	if payments > 0 {
		return fmt.Errorf("personnel has payments and cannot be deleted")
	}
	return db.Delete(&model.Personnel{}, "id = ?", personID).Error
}

// --- Driver payments ---

func (s *personnelService) CreateDriverPayment(ctx context.Context, req CreateDriverPaymentRequest) (DriverPaymentResponse, error) {
	personID, err := uuid.Parse(req.PersonnelID)
	if err != nil {
		return DriverPaymentResponse{}, fmt.Errorf("invalid personnel_id: %w", err)
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return DriverPaymentResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return DriverPaymentResponse{}, fmt.Errorf("amount must be positive")
	}
	date := time.Now()
	if req.Date != "" {
		date, err = time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return DriverPaymentResponse{}, fmt.Errorf("invalid date: %w", err)
		}
	}

	var person model.Personnel
	if err := repository.GetDB(ctx, s.db).First(&person, "id = ?", personID).Error; err != nil {
		return DriverPaymentResponse{}, fmt.Errorf("personnel not found: %w", err)
	}

	payment := model.DriverPayment{
		PersonnelID: personID,
		Amount:      amount,
		Date:        date,
		Concept:     req.Concept,
		Notes:       req.Notes,
	}
	if err := repository.GetDB(ctx, s.db).Create(&payment).Error; err != nil {
		return DriverPaymentResponse{}, fmt.Errorf("failed to create payment: %w", err)
	}
	payment.Personnel = &person
	return toDriverPaymentResponse(payment), nil
}

func (s *personnelService) ListDriverPayments(ctx context.Context, personnelID string, page, limit int) ([]DriverPaymentResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	query := repository.GetDB(ctx, s.db).Model(&model.DriverPayment{})
	if personnelID != "" {
		query = query.Where("personnel_id = ?", personnelID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	var payments []model.DriverPayment
	offset := (page - 1) * limit
	if err := query.Preload("Personnel").Order("date desc").Offset(offset).Limit(limit).Find(&payments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %w", err)
	}

	result := make([]DriverPaymentResponse, 0, len(payments))
	for _, p := range payments {
		result = append(result, toDriverPaymentResponse(p))
	}
	return result, total, nil
}

func (s *personnelService) DeleteDriverPayment(ctx context.Context, id string) error {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid payment id: %w", err)
	}
	return repository.GetDB(ctx, s.db).Delete(&model.DriverPayment{}, "id = ?", paymentID).Error
}

// --- Payroll ---

// RunPayroll snapshots the active staff's salaries for a month. One run per
// month; salary changes after the run do not alter it.
func (s *personnelService) RunPayroll(ctx context.Context, req RunPayrollRequest) (PayrollResponse, error) {
	if req.Month < 1 || req.Month > 12 {
		return PayrollResponse{}, fmt.Errorf("month must be between 1 and 12")
	}

	var payroll model.Payroll
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		db := repository.GetDB(txCtx, s.db)

		var existing int64
		if err := db.Model(&model.Payroll{}).
			Where("month = ? AND year = ?", req.Month, req.Year).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check payrolls: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("payroll for %02d/%d already exists", req.Month, req.Year)
		}

		var people []model.Personnel
		if err := db.Where("status = ? AND salary > 0", model.StatusActive).
			Order("name asc").Find(&people).Error; err != nil {
			return fmt.Errorf("failed to fetch personnel: %w", err)
		}
		if len(people) == 0 {
			return fmt.Errorf("no active personnel with a salary")
		}

		total := decimal.Zero
		entries := make([]payrollEntry, 0, len(people))
		for _, p := range people {
			total = total.Add(p.Salary)
			entries = append(entries, payrollEntry{
				PersonnelID: p.ID.String(),
				Name:        p.Name,
				Role:        p.Role,
				Salary:      p.Salary.StringFixed(2),
			})
		}
		details, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to encode payroll details: %w", err)
		}

		payroll = model.Payroll{
			Month:       req.Month,
			Year:        req.Year,
			TotalAmount: total,
			Status:      model.PayrollPaid,
			Details:     string(details),
		}
		return db.Create(&payroll).Error
	})
	if err != nil {
		return PayrollResponse{}, err
	}

	return toPayrollResponse(payroll), nil
}

func (s *personnelService) ListPayrolls(ctx context.Context, page, limit int) ([]PayrollResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	query := repository.GetDB(ctx, s.db).Model(&model.Payroll{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	var payrolls []model.Payroll
	offset := (page - 1) * limit
	if err := query.Order("year desc, month desc").Offset(offset).Limit(limit).Find(&payrolls).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payrolls: %w", err)
	}

	result := make([]PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		result = append(result, toPayrollResponse(p))
	}
	return result, total, nil
}

// --- Mapping ---

func toPersonnelResponse(p model.Personnel) PersonnelResponse {
	return PersonnelResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Dni:           p.Dni,
		Phone:         p.Phone,
		Email:         p.Email,
		Role:          p.Role,
		LicenseNumber: p.LicenseNumber,
		Salary:        p.Salary.StringFixed(2),
		Status:        p.Status,
	}
}

func toDriverPaymentResponse(p model.DriverPayment) DriverPaymentResponse {
	resp := DriverPaymentResponse{
		ID:          p.ID.String(),
		PersonnelID: p.PersonnelID.String(),
		Amount:      p.Amount.StringFixed(2),
		Date:        p.Date.Format(time.RFC3339),
		Concept:     p.Concept,
		Notes:       p.Notes,
	}
	if p.Personnel != nil {
		resp.PersonnelName = p.Personnel.Name
	}
	return resp
}

func toPayrollResponse(p model.Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:          p.ID.String(),
		Month:       p.Month,
		Year:        p.Year,
		TotalAmount: p.TotalAmount.StringFixed(2),
		Status:      p.Status,
	}
	if p.Details != "" {
		_ = json.Unmarshal([]byte(p.Details), &resp.Entries)
	}
	return resp
}
