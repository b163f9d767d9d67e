package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementDirection string

const (
	MovementIn  MovementDirection = "in"
	MovementOut MovementDirection = "out"
)

// SparePart is the stock aggregate. TotalPrice is always Quantity * UnitPrice
// of the part itself, never a weighted cost of the lots moved through it.
type SparePart struct {
	ID         int64           `json:"part_id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Valuation returns the stored value of qty units at the part's current price.
func (p SparePart) Valuation(qty int) decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// StockMovement is a ledger entry against a spare part. Quantity is signed:
// positive for stock in, negative for stock out.
type StockMovement struct {
	ID         int64             `json:"id"`
	PartID     int64             `json:"part_id"`
	PartName   string            `json:"part_name,omitempty"`
	Category   string            `json:"category,omitempty"`
	Direction  MovementDirection `json:"direction"`
	Quantity   int               `json:"quantity"`
	UnitPrice  decimal.Decimal   `json:"unit_price"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	Date       time.Time         `json:"date"`
	CreatedAt  time.Time         `json:"created_at"`
}

// DirectionOf returns the direction implied by a signed delta.
func DirectionOf(delta int) MovementDirection {
	if delta < 0 {
		return MovementOut
	}
	return MovementIn
}

// LotValue is the absolute value of the moved lot.
func LotValue(delta int, unitPrice decimal.Decimal) decimal.Decimal {
	if delta < 0 {
		delta = -delta
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(delta)))
}

type StockDetail struct {
	UnitPrice decimal.Decimal
	Date      time.Time
}
