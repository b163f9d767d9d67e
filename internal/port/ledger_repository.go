package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/garage-ledger/internal/core/domain"
)

// LedgerStore runs guarded mutations. WithinTx commits when fn returns nil and
// rolls back on any error or panic, so callers never observe partial effects.
type LedgerStore interface {
	WithinTx(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx is the statement set available inside one transaction. Lock*
// methods take a row lock that is held until the transaction ends.
type LedgerTx interface {
	LockSlot(ctx context.Context, slotNumber string) (domain.ParkingSlot, error)
	// SetSlotStatus moves the slot from one status to another and fails when
	// the slot is not in the expected status.
	SetSlotStatus(ctx context.Context, slotNumber string, from, to domain.SlotStatus) error
	LockCar(ctx context.Context, plateNumber string) error
	HasOpenRecord(ctx context.Context, plateNumber string) (bool, error)
	InsertRecord(ctx context.Context, record domain.ParkingRecord) (int64, error)
	LockRecord(ctx context.Context, recordID int64) (domain.ParkingRecord, error)
	CloseRecord(ctx context.Context, recordID int64, exit time.Time, duration int, fee decimal.Decimal) error
	InsertParkingPayment(ctx context.Context, payment domain.ParkingPayment) (int64, error)

	// InsertPart adds a part with zero quantity. Opening stock is booked as a
	// movement in the same transaction.
	InsertPart(ctx context.Context, part domain.SparePart) (int64, error)
	LockPart(ctx context.Context, partID int64) (domain.SparePart, error)
	// ApplyPartDelta adds delta to the part's quantity and revalues it at the
	// part's unit price. It fails with ErrInsufficientQuantity when the result
	// would drop below zero.
	ApplyPartDelta(ctx context.Context, partID int64, delta int) error
	InsertMovement(ctx context.Context, movement domain.StockMovement) (int64, error)
	LockMovement(ctx context.Context, movementID int64) (domain.StockMovement, error)
	UpdateMovement(ctx context.Context, movement domain.StockMovement) error
	DeleteMovement(ctx context.Context, movementID int64) error
}

type LedgerReader interface {
	ListSlots(ctx context.Context) ([]domain.ParkingSlot, error)
	Occupancy(ctx context.Context) (domain.Occupancy, error)
	ListRecords(ctx context.Context, activeOnly bool) ([]domain.ParkingRecord, error)
	ListParkingPayments(ctx context.Context) ([]domain.ParkingPayment, error)
	ListMovements(ctx context.Context, direction domain.MovementDirection) ([]domain.StockMovement, error)
}
