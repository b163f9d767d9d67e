package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rl1809/garage-ledger/internal/core/domain"
)

// CatalogRepository covers the administrative tables. Update and Delete
// methods return an ErrNotFound-wrapped error when no row matched.
type CatalogRepository interface {
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	CreateDepartment(ctx context.Context, d domain.Department) (int64, error)
	UpdateDepartment(ctx context.Context, d domain.Department) error
	DeleteDepartment(ctx context.Context, id int64) error

	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	CreateEmployee(ctx context.Context, e domain.Employee) (int64, error)
	UpdateEmployee(ctx context.Context, e domain.Employee) error
	DeleteEmployee(ctx context.Context, id int64) error

	ListSalaries(ctx context.Context) ([]domain.Salary, error)
	CreateSalary(ctx context.Context, s domain.Salary) (int64, error)
	UpdateSalary(ctx context.Context, s domain.Salary) error
	DeleteSalary(ctx context.Context, id int64) error

	ListServices(ctx context.Context) ([]domain.Service, error)
	CreateService(ctx context.Context, s domain.Service) error
	UpdateService(ctx context.Context, s domain.Service) error
	DeleteService(ctx context.Context, code string) error

	ListCars(ctx context.Context) ([]domain.Car, error)
	CreateCar(ctx context.Context, c domain.Car) error
	UpdateCar(ctx context.Context, c domain.Car) error
	DeleteCar(ctx context.Context, plateNumber string) error

	ListServiceRecords(ctx context.Context) ([]domain.ServiceRecord, error)
	CreateServiceRecord(ctx context.Context, r domain.ServiceRecord) (int64, error)
	DeleteServiceRecord(ctx context.Context, recordNumber int64) error

	ListPayments(ctx context.Context) ([]domain.Payment, error)
	CreatePayment(ctx context.Context, p domain.Payment) (int64, error)

	CreateSlot(ctx context.Context, slotNumber string) error
	DeleteSlot(ctx context.Context, slotNumber string) error

	ListParts(ctx context.Context) ([]domain.SparePart, error)
	UpdatePart(ctx context.Context, id int64, name, category string, unitPrice decimal.Decimal) error
	DeletePart(ctx context.Context, id int64) error
}

type ReportRepository interface {
	DashboardStats(ctx context.Context) (domain.DashboardStats, error)
	ParkingReport(ctx context.Context, r domain.DateRange) (domain.ParkingReport, error)
	StockReport(ctx context.Context, r domain.DateRange) ([]domain.StockReportLine, error)
	PaymentReport(ctx context.Context, r domain.DateRange) ([]domain.PaymentReportLine, error)
	Payroll(ctx context.Context, month string) ([]domain.PayrollLine, error)
}
