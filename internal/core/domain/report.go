package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalSlots      int             `json:"totalSlots"`
	AvailableSlots  int             `json:"availableSlots"`
	TotalCars       int             `json:"totalCars"`
	ActiveParking   int             `json:"activeParking"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	AverageDuration float64         `json:"averageDuration"`
}

type DailyRevenue struct {
	Date              string          `json:"date"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalTransactions int             `json:"total_transactions"`
}

type SlotUsage struct {
	SlotNumber string `json:"slot_number"`
	TotalUsage int    `json:"total_usage"`
}

type ParkingReport struct {
	DailyRevenue []DailyRevenue `json:"dailyRevenue"`
	SlotUsage    []SlotUsage    `json:"slotUsage"`
}

type StockReportLine struct {
	PartID     int64           `json:"part_id"`
	Name       string          `json:"name"`
	StockIn    int             `json:"stock_in"`
	StockOut   int             `json:"stock_out"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type PaymentReportLine struct {
	PaymentDate time.Time       `json:"payment_date"`
	Username    string          `json:"username"`
	PlateNumber string          `json:"plate_number"`
	ServiceName string          `json:"service_name"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
}

type PayrollLine struct {
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Position       string          `json:"position"`
	DepartmentName string          `json:"department_name"`
	NetSalary      decimal.Decimal `json:"net_salary"`
}

// DateRange is inclusive on both ends, at day granularity.
type DateRange struct {
	From time.Time
	To   time.Time
}
