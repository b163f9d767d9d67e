package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Department struct {
	ID          int64           `json:"id"`
	Code        string          `json:"department_code" binding:"required"`
	Name        string          `json:"department_name" binding:"required"`
	GrossSalary decimal.Decimal `json:"gross_salary"`
}

type Employee struct {
	ID             int64  `json:"id"`
	EmployeeNumber string `json:"employee_number" binding:"required"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Position       string `json:"position" binding:"required"`
	Address        string `json:"address" binding:"required"`
	Telephone      string `json:"telephone" binding:"required"`
	DepartmentID   int64  `json:"department_id" binding:"required"`
	DepartmentName string `json:"department_name,omitempty"`
}

type Salary struct {
	ID             int64           `json:"id"`
	EmployeeID     int64           `json:"employee_id"`
	TotalDeduction decimal.Decimal `json:"total_deduction"`
	NetSalary      decimal.Decimal `json:"net_salary"`
	Month          string          `json:"month" binding:"required"`
	FirstName      string          `json:"first_name,omitempty"`
	LastName       string          `json:"last_name,omitempty"`
	Position       string          `json:"position,omitempty"`
	DepartmentName string          `json:"department_name,omitempty"`
}

type Service struct {
	Code  string          `json:"service_code"`
	Name  string          `json:"service_name" binding:"required"`
	Price decimal.Decimal `json:"price"`
}

type Car struct {
	PlateNumber       string `json:"plate_number"`
	Type              string `json:"car_type"`
	Model             string `json:"model"`
	ManufacturingYear int    `json:"manufacturing_year"`
	DriverName        string `json:"driver_name"`
	DriverPhone       string `json:"driver_phone"`
	MechanicName      string `json:"mechanic_name"`
}

type ServiceRecord struct {
	RecordNumber int64           `json:"record_number"`
	ServiceDate  time.Time       `json:"service_date"`
	PlateNumber  string          `json:"plate_number" binding:"required"`
	ServiceCode  string          `json:"service_code" binding:"required"`
	CarType      string          `json:"car_type,omitempty"`
	Model        string          `json:"model,omitempty"`
	ServiceName  string          `json:"service_name,omitempty"`
	Price        decimal.Decimal `json:"price"`
}

type Payment struct {
	PaymentNumber int64           `json:"payment_number"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentDate   time.Time       `json:"payment_date"`
	RecordNumber  int64           `json:"record_number" binding:"required"`
	UserID        int64           `json:"user_id"`
	Username      string          `json:"username,omitempty"`
	PlateNumber   string          `json:"plate_number,omitempty"`
	ServiceName   string          `json:"service_name,omitempty"`
}
