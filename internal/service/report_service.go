package service

import (
	"context"
	"time"

	"sgflota/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FinancialReport aggregates money in and out for a period. Income counts
// actual payments received, not invoiced amounts.
type FinancialReport struct {
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	NetResult       decimal.Decimal `json:"net_result"`
	InvoicedAmount  decimal.Decimal `json:"invoiced_amount"`
	OutstandingDebt decimal.Decimal `json:"outstanding_debt"`
	PendingPayables decimal.Decimal `json:"pending_payables"`
	ExpensesByGroup []CategoryTotal `json:"expenses_by_category"`
}

type CategoryTotal struct {
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

// FleetReport summarizes fleet utilization and rental activity.
type FleetReport struct {
	TotalVehicles     int64           `json:"total_vehicles"`
	Available         int64           `json:"available"`
	Rented            int64           `json:"rented"`
	InMaintenance     int64           `json:"in_maintenance"`
	ActiveRentals     int64           `json:"active_rentals"`
	FinalizedRentals  int64           `json:"finalized_rentals"`
	RentalRevenue     decimal.Decimal `json:"rental_revenue"`
	MaintenanceCosts  decimal.Decimal `json:"maintenance_costs"`
	VehiclesByRevenue []VehicleTotal  `json:"vehicles_by_revenue"`
}

type VehicleTotal struct {
	VehicleID   string          `json:"vehicle_id"`
	VehicleName string          `json:"vehicle_name"`
	Plate       string          `json:"plate"`
	Rentals     int64           `json:"rentals"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type ReportService interface {
	GetFinancialReport(ctx context.Context, startDate, endDate time.Time) (FinancialReport, error)
	GetFleetReport(ctx context.Context, startDate, endDate time.Time) (FleetReport, error)
}

type reportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

func (s *reportService) GetFinancialReport(ctx context.Context, startDate, endDate time.Time) (FinancialReport, error) {
	report := FinancialReport{StartDate: startDate, EndDate: endDate}
	db := s.db.WithContext(ctx)

	var income struct{ Value decimal.Decimal }
	db.Model(&model.Payment{}).
		Select("COALESCE(SUM(amount), 0) as value").
		Where("date >= ? AND date <= ?", startDate, endDate).
		Scan(&income)
	report.TotalIncome = income.Value

	var expenses struct{ Value decimal.Decimal }
	db.Model(&model.Expense{}).
		Select("COALESCE(SUM(amount), 0) as value").
		Where("date >= ? AND date <= ?", startDate, endDate).
		Scan(&expenses)
	report.TotalExpenses = expenses.Value

	report.NetResult = report.TotalIncome.Sub(report.TotalExpenses)

	var invoiced struct{ Value decimal.Decimal }
	db.Model(&model.Invoice{}).
		Select("COALESCE(SUM(amount), 0) as value").
		Where("date >= ? AND date <= ?", startDate, endDate).
		Scan(&invoiced)
	report.InvoicedAmount = invoiced.Value

	// Debt is period-independent: whatever stays unpaid right now.
	var debt struct{ Value decimal.Decimal }
	db.Model(&model.Invoice{}).
		Select("COALESCE(SUM(amount - paid_amount), 0) as value").
		Where("status <> ?", model.InvoicePaid).
		Scan(&debt)
	report.OutstandingDebt = debt.Value

	var payables struct{ Value decimal.Decimal }
	db.Model(&model.AccountPayable{}).
		Select("COALESCE(SUM(amount), 0) as value").
		Where("status IN ?", []string{model.PayablePending, model.PayableHeld}).
		Scan(&payables)
	report.PendingPayables = payables.Value

	var byCategory []CategoryTotal
	db.Table("expenses").
		Select("expense_categories.name as category_name, COALESCE(SUM(expenses.amount), 0) as total").
		Joins("JOIN expense_categories ON expense_categories.id = expenses.category_id").
		Where("expenses.date >= ? AND expenses.date <= ?", startDate, endDate).
		Group("expense_categories.name").
		Order("total DESC").
		Scan(&byCategory)
	report.ExpensesByGroup = byCategory

	return report, nil
}

func (s *reportService) GetFleetReport(ctx context.Context, startDate, endDate time.Time) (FleetReport, error) {
	var report FleetReport
	db := s.db.WithContext(ctx)

	db.Model(&model.Vehicle{}).Count(&report.TotalVehicles)
	db.Model(&model.Vehicle{}).Where("status = ?", model.VehicleAvailable).Count(&report.Available)
	db.Model(&model.Vehicle{}).Where("status = ?", model.VehicleRented).Count(&report.Rented)
	db.Model(&model.Vehicle{}).Where("status = ?", model.VehicleMaintenance).Count(&report.InMaintenance)

	db.Model(&model.Rental{}).Where("status = ?", model.RentalActive).Count(&report.ActiveRentals)
	db.Model(&model.Rental{}).
		Where("status = ? AND start_date >= ? AND start_date <= ?", model.RentalFinalized, startDate, endDate).
		Count(&report.FinalizedRentals)

	var revenue struct{ Value decimal.Decimal }
	db.Model(&model.Rental{}).
		Select("COALESCE(SUM(total_amount), 0) as value").
		Where("start_date >= ? AND start_date <= ?", startDate, endDate).
		Scan(&revenue)
	report.RentalRevenue = revenue.Value

	var costs struct{ Value decimal.Decimal }
	db.Model(&model.Maintenance{}).
		Select("COALESCE(SUM(cost), 0) as value").
		Where("date >= ? AND date <= ?", startDate, endDate).
		Scan(&costs)
	report.MaintenanceCosts = costs.Value

	var byVehicle []VehicleTotal
	db.Table("rentals").
		Select("vehicles.id as vehicle_id, vehicles.name as vehicle_name, vehicles.plate as plate, COUNT(rentals.id) as rentals, COALESCE(SUM(rentals.total_amount), 0) as revenue").
		Joins("JOIN vehicles ON vehicles.id = rentals.vehicle_id").
		Where("rentals.start_date >= ? AND rentals.start_date <= ?", startDate, endDate).
		Group("vehicles.id, vehicles.name, vehicles.plate").
		Order("revenue DESC").
		Limit(5).
		Scan(&byVehicle)
	report.VehiclesByRevenue = byVehicle

	return report, nil
}
