package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/garage-ledger/internal/core/domain"
	"github.com/rl1809/garage-ledger/internal/pkg/logger"
	"github.com/rl1809/garage-ledger/internal/port"
)

type ParkingService struct {
	store      port.LedgerStore
	events     port.EventPublisher
	log        *logger.Logger
	hourlyRate decimal.Decimal
	now        Clock
}

func NewParkingService(store port.LedgerStore, events port.EventPublisher, log *logger.Logger, hourlyRate decimal.Decimal, now Clock) *ParkingService {
	if events == nil {
		events = noopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &ParkingService{
		store:      store,
		events:     events,
		log:        log.With("service", "ParkingService"),
		hourlyRate: hourlyRate,
		now:        now,
	}
}

// stamp returns now at the precision of the DATETIME columns, so the billed
// duration is computed from the same values that are stored.
func (s *ParkingService) stamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// OpenOccupancy parks a car in an available slot and returns the new record id.
func (s *ParkingService) OpenOccupancy(ctx context.Context, slotNumber string, detail domain.OccupancyDetail) (int64, error) {
	if slotNumber == "" || detail.PlateNumber == "" {
		return 0, fmt.Errorf("slot number and plate number are required: %w", domain.ErrInvalidArgument)
	}

	entry := s.stamp()
	var recordID int64
	err := s.store.WithinTx(ctx, func(tx port.LedgerTx) error {
		slot, err := tx.LockSlot(ctx, slotNumber)
		if err != nil {
			return err
		}
		if slot.Status != domain.SlotAvailable {
			return domain.ErrSlotOccupied
		}

		if err := tx.LockCar(ctx, detail.PlateNumber); err != nil {
			return err
		}
		parked, err := tx.HasOpenRecord(ctx, detail.PlateNumber)
		if err != nil {
			return err
		}
		if parked {
			return domain.ErrCarAlreadyParked
		}

		recordID, err = tx.InsertRecord(ctx, domain.ParkingRecord{
			PlateNumber: detail.PlateNumber,
			SlotNumber:  slotNumber,
			EntryTime:   entry,
		})
		if err != nil {
			return err
		}
		return tx.SetSlotStatus(ctx, slotNumber, domain.SlotAvailable, domain.SlotOccupied)
	})
	if err != nil {
		return 0, fmt.Errorf("open occupancy on slot %s: %w", slotNumber, err)
	}

	s.log.Info("occupancy opened", "slot", slotNumber, "plate", detail.PlateNumber, "record_id", recordID)
	publish(ctx, s.log, s.events, entry, domain.EventOccupancyOpened, slotNumber, map[string]any{
		"record_id":    recordID,
		"plate_number": detail.PlateNumber,
	})
	return recordID, nil
}

// CloseOccupancy records the exit, bills every started hour and frees the slot.
func (s *ParkingService) CloseOccupancy(ctx context.Context, recordID int64) (domain.Checkout, error) {
	exit := s.stamp()
	var out domain.Checkout
	err := s.store.WithinTx(ctx, func(tx port.LedgerTx) error {
		record, err := tx.LockRecord(ctx, recordID)
		if err != nil {
			return err
		}
		if !record.Open() {
			return domain.ErrAlreadyClosed
		}

		duration := domain.DurationMinutes(record.EntryTime, exit)
		fee := domain.ParkingFee(duration, s.hourlyRate)
		if err := tx.CloseRecord(ctx, recordID, exit, duration, fee); err != nil {
			return err
		}
		if err := tx.SetSlotStatus(ctx, record.SlotNumber, domain.SlotOccupied, domain.SlotAvailable); err != nil {
			return err
		}

		out = domain.Checkout{
			RecordID:   recordID,
			SlotNumber: record.SlotNumber,
			ExitTime:   exit,
			Duration:   duration,
			Fee:        fee,
		}
		return nil
	})
	if err != nil {
		return domain.Checkout{}, fmt.Errorf("close occupancy %d: %w", recordID, err)
	}

	s.log.Info("occupancy closed", "record_id", recordID, "slot", out.SlotNumber, "duration", out.Duration, "fee", out.Fee)
	publish(ctx, s.log, s.events, exit, domain.EventOccupancyClosed, out.SlotNumber, out)
	return out, nil
}

// RecordPayment pays a closed parking record.
func (s *ParkingService) RecordPayment(ctx context.Context, recordID int64, amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, fmt.Errorf("amount must be positive: %w", domain.ErrInvalidArgument)
	}

	paidAt := s.now()
	var paymentID int64
	err := s.store.WithinTx(ctx, func(tx port.LedgerTx) error {
		record, err := tx.LockRecord(ctx, recordID)
		if err != nil {
			return err
		}
		if record.Open() {
			return domain.ErrRecordStillOpen
		}
		paymentID, err = tx.InsertParkingPayment(ctx, domain.ParkingPayment{
			RecordID:    recordID,
			AmountPaid:  amount,
			PaymentDate: paidAt,
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("record payment for %d: %w", recordID, err)
	}
	return paymentID, nil
}
