package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotOccupied  SlotStatus = "occupied"
)

type ParkingSlot struct {
	Number string     `json:"slot_number"`
	Status SlotStatus `json:"slot_status"`
}

// ParkingRecord is one parking session. It is open while ExitTime is nil and
// transitions exactly once to closed, when ExitTime, Duration and Fee are set.
type ParkingRecord struct {
	ID          int64            `json:"record_id"`
	PlateNumber string           `json:"plate_number"`
	SlotNumber  string           `json:"slot_number"`
	EntryTime   time.Time        `json:"entry_time"`
	ExitTime    *time.Time       `json:"exit_time"`
	Duration    *int             `json:"duration"`
	Fee         *decimal.Decimal `json:"fee"`
}

func (r ParkingRecord) Open() bool {
	return r.ExitTime == nil
}

type OccupancyDetail struct {
	PlateNumber string
}

type Checkout struct {
	RecordID   int64           `json:"record_id"`
	SlotNumber string          `json:"slot_number"`
	ExitTime   time.Time       `json:"exit_time"`
	Duration   int             `json:"duration"`
	Fee        decimal.Decimal `json:"fee"`
}

type ParkingPayment struct {
	ID          int64           `json:"payment_id"`
	RecordID    int64           `json:"record_id"`
	PlateNumber string          `json:"plate_number,omitempty"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	PaymentDate time.Time       `json:"payment_date"`
}

type Occupancy struct {
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
}
