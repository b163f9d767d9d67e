package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/garage-ledger/internal/core/domain"
	"github.com/rl1809/garage-ledger/internal/pkg/logger"
	"github.com/rl1809/garage-ledger/internal/port"
)

type StockService struct {
	store  port.LedgerStore
	events port.EventPublisher
	log    *logger.Logger
	now    Clock
}

func NewStockService(store port.LedgerStore, events port.EventPublisher, log *logger.Logger, now Clock) *StockService {
	if events == nil {
		events = noopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &StockService{
		store:  store,
		events: events,
		log:    log.With("service", "StockService"),
		now:    now,
	}
}

// CreatePart registers a part. A non-zero opening quantity is booked as an
// inbound movement at the part's unit price, so the part's quantity always
// equals the sum of its movements.
func (s *StockService) CreatePart(ctx context.Context, part domain.SparePart) (int64, error) {
	if strings.TrimSpace(part.Name) == "" {
		return 0, fmt.Errorf("part name is required: %w", domain.ErrInvalidArgument)
	}
	if part.Quantity < 0 || part.UnitPrice.IsNegative() {
		return 0, fmt.Errorf("quantity and unit price must not be negative: %w", domain.ErrInvalidArgument)
	}

	var partID, movementID int64
	err := s.store.WithinTx(ctx, func(tx port.LedgerTx) error {
		var err error
		partID, err = tx.InsertPart(ctx, part)
		if err != nil || part.Quantity == 0 {
			return err
		}
		movementID, err = tx.InsertMovement(ctx, domain.StockMovement{
			PartID:     partID,
			Direction:  domain.MovementIn,
			Quantity:   part.Quantity,
			UnitPrice:  part.UnitPrice,
			TotalPrice: domain.LotValue(part.Quantity, part.UnitPrice),
			Date:       s.now(),
		})
		if err != nil {
			return err
		}
		return tx.ApplyPartDelta(ctx, partID, part.Quantity)
	})
	if err != nil {
		return 0, fmt.Errorf("create part %q: %w", part.Name, err)
	}

	s.log.Info("spare part created", "part_id", partID, "quantity", part.Quantity, "movement_id", movementID)
	if movementID != 0 {
		publish(ctx, s.log, s.events, s.now(), domain.EventStockAdjusted, partKey(partID), map[string]any{
			"movement_id": movementID,
			"delta":       part.Quantity,
		})
	}
	return partID, nil
}

// StockIn receives qty units of a part.
func (s *StockService) StockIn(ctx context.Context, partID int64, qty int, detail domain.StockDetail) (int64, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("stock in quantity must be positive: %w", domain.ErrInvalidArgument)
	}
	return s.AdjustQuantity(ctx, partID, qty, detail)
}

// StockOut withdraws qty units of a part.
func (s *StockService) StockOut(ctx context.Context, partID int64, qty int, detail domain.StockDetail) (int64, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("stock out quantity must be positive: %w", domain.ErrInvalidArgument)
	}
	return s.AdjustQuantity(ctx, partID, -qty, detail)
}

// AdjustQuantity records a signed movement against a part and applies it to the
// part's quantity. Withdrawals that would leave the part negative are rejected.
func (s *StockService) AdjustQuantity(ctx context.Context, partID int64, delta int, detail domain.StockDetail) (int64, error) {
	if delta == 0 {
		return 0, fmt.Errorf("delta must be non-zero: %w", domain.ErrInvalidArgument)
	}
	if detail.UnitPrice.IsNegative() {
		return 0, fmt.Errorf("unit price must not be negative: %w", domain.ErrInvalidArgument)
	}
	if detail.Date.IsZero() {
		detail.Date = s.now()
	}

	var movementID int64
	err := s.store.WithinTx(ctx, func(tx port.LedgerTx) error {
		part, err := tx.LockPart(ctx, partID)
		if err != nil {
			return err
		}
		if part.Quantity+delta < 0 {
			return domain.ErrInsufficientQuantity
		}

		movementID, err = tx.InsertMovement(ctx, domain.StockMovement{
			PartID:     partID,
			Direction:  domain.DirectionOf(delta),
			Quantity:   delta,
			UnitPrice:  detail.UnitPrice,
			TotalPrice: domain.LotValue(delta, detail.UnitPrice),
			Date:       detail.Date,
		})
		if err != nil {
			return err
		}
		return tx.ApplyPartDelta(ctx, partID, delta)
	})
	if err != nil {
		return 0, fmt.Errorf("adjust part %d by %d: %w", partID, delta, err)
	}

	s.log.Info("stock adjusted", "part_id", partID, "delta", delta, "movement_id", movementID)
	publish(ctx, s.log, s.events, s.now(), domain.EventStockAdjusted, partKey(partID), map[string]any{
		"movement_id": movementID,
		"delta":       delta,
	})
	return movementID, nil
}

// ReverseAdjustment rewrites a past movement. Only the difference between the
// new and old delta is applied to the part, other movements are not replayed.
func (s *StockService) ReverseAdjustment(ctx context.Context, movementID int64, newDelta int, newUnitPrice decimal.Decimal, newDate time.Time) error {
	if newDelta == 0 {
		return fmt.Errorf("delta must be non-zero: %w", domain.ErrInvalidArgument)
	}
	if newUnitPrice.IsNegative() {
		return fmt.Errorf("unit price must not be negative: %w", domain.ErrInvalidArgument)
	}

	var partID int64
	var diff int
	err := s.store.WithinTx(ctx, func(tx port.LedgerTx) error {
		movement, err := tx.LockMovement(ctx, movementID)
		if err != nil {
			return err
		}
		if domain.DirectionOf(newDelta) != movement.Direction {
			return fmt.Errorf("movement %d is %s, delta %d has the wrong sign: %w",
				movementID, movement.Direction, newDelta, domain.ErrInvalidArgument)
		}

		part, err := tx.LockPart(ctx, movement.PartID)
		if err != nil {
			return err
		}
		partID = part.ID
		diff = newDelta - movement.Quantity
		if part.Quantity+diff < 0 {
			return domain.ErrInsufficientQuantity
		}
		if diff != 0 {
			if err := tx.ApplyPartDelta(ctx, part.ID, diff); err != nil {
				return err
			}
		}

		if newDate.IsZero() {
			newDate = movement.Date
		}
		movement.Quantity = newDelta
		movement.UnitPrice = newUnitPrice
		movement.TotalPrice = domain.LotValue(newDelta, newUnitPrice)
		movement.Date = newDate
		return tx.UpdateMovement(ctx, movement)
	})
	if err != nil {
		return fmt.Errorf("revise movement %d: %w", movementID, err)
	}

	s.log.Info("stock movement revised", "movement_id", movementID, "part_id", partID, "diff", diff)
	publish(ctx, s.log, s.events, s.now(), domain.EventStockRevised, partKey(partID), map[string]any{
		"movement_id": movementID,
		"delta":       newDelta,
		"diff":        diff,
	})
	return nil
}

// DeleteAdjustment undoes a movement's delta and removes it from the ledger.
func (s *StockService) DeleteAdjustment(ctx context.Context, movementID int64) error {
	var movement domain.StockMovement
	err := s.store.WithinTx(ctx, func(tx port.LedgerTx) error {
		var err error
		movement, err = tx.LockMovement(ctx, movementID)
		if err != nil {
			return err
		}
		part, err := tx.LockPart(ctx, movement.PartID)
		if err != nil {
			return err
		}
		if part.Quantity-movement.Quantity < 0 {
			return domain.ErrInsufficientQuantity
		}
		if err := tx.ApplyPartDelta(ctx, part.ID, -movement.Quantity); err != nil {
			return err
		}
		return tx.DeleteMovement(ctx, movementID)
	})
	if err != nil {
		return fmt.Errorf("delete movement %d: %w", movementID, err)
	}

	s.log.Info("stock movement deleted", "movement_id", movementID, "part_id", movement.PartID)
	publish(ctx, s.log, s.events, s.now(), domain.EventStockDeleted, partKey(movement.PartID), map[string]any{
		"movement_id": movementID,
		"delta":       -movement.Quantity,
	})
	return nil
}

func partKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
