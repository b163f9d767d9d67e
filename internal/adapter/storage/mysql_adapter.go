package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/rl1809/garage-ledger/internal/core/domain"
	"github.com/rl1809/garage-ledger/internal/port"
)

var tracer = otel.Tracer("github.com/rl1809/garage-ledger/internal/adapter/storage")

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *MySQLAdapter) WithinTx(ctx context.Context, fn func(tx port.LedgerTx) error) error {
	ctx, span := tracer.Start(ctx, "mysql.WithinTx")
	defer span.End()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return domain.StorageError("begin tx", err)
	}
	defer tx.Rollback()

	if err := fn(&mysqlTx{tx: tx}); err != nil {
		span.RecordError(err)
		return err
	}

	if err := tx.Commit(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return domain.StorageError("commit", err)
	}
	return nil
}

type mysqlTx struct {
	tx *sql.Tx
}

func (t *mysqlTx) LockSlot(ctx context.Context, slotNumber string) (domain.ParkingSlot, error) {
	var slot domain.ParkingSlot
	err := t.tx.QueryRowContext(ctx, `
		SELECT slot_number, slot_status
		FROM parking_slots WHERE slot_number = ? FOR UPDATE`, slotNumber,
	).Scan(&slot.Number, &slot.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ParkingSlot{}, domain.ErrSlotNotFound
	}
	if err != nil {
		return domain.ParkingSlot{}, mapError("lock slot", err)
	}
	return slot, nil
}

func (t *mysqlTx) SetSlotStatus(ctx context.Context, slotNumber string, from, to domain.SlotStatus) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE parking_slots
		SET slot_status = ?
		WHERE slot_number = ? AND slot_status = ?`,
		to, slotNumber, from,
	)
	if err != nil {
		return mapError("update slot", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		if from == domain.SlotAvailable {
			return domain.ErrSlotOccupied
		}
		return domain.ErrSlotNotOccupied
	}
	return nil
}

func (t *mysqlTx) LockCar(ctx context.Context, plateNumber string) error {
	var plate string
	err := t.tx.QueryRowContext(ctx, `
		SELECT plate_number FROM cars WHERE plate_number = ? FOR UPDATE`, plateNumber,
	).Scan(&plate)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrCarNotFound
	}
	if err != nil {
		return mapError("lock car", err)
	}
	return nil
}

func (t *mysqlTx) HasOpenRecord(ctx context.Context, plateNumber string) (bool, error) {
	var n int
	err := t.tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM parking_records
		WHERE plate_number = ? AND exit_time IS NULL`, plateNumber,
	).Scan(&n)
	if err != nil {
		return false, mapError("count open records", err)
	}
	return n > 0, nil
}

func (t *mysqlTx) InsertRecord(ctx context.Context, record domain.ParkingRecord) (int64, error) {
	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO parking_records (plate_number, slot_number, entry_time)
		VALUES (?, ?, ?)`,
		record.PlateNumber, record.SlotNumber, record.EntryTime,
	)
	if err != nil {
		return 0, mapError("insert parking record", err)
	}
	return lastInsertID("insert parking record", result)
}

func (t *mysqlTx) LockRecord(ctx context.Context, recordID int64) (domain.ParkingRecord, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT record_id, plate_number, slot_number, entry_time, exit_time, duration, fee
		FROM parking_records WHERE record_id = ? FOR UPDATE`, recordID)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ParkingRecord{}, domain.ErrRecordNotFound
	}
	if err != nil {
		return domain.ParkingRecord{}, mapError("lock parking record", err)
	}
	return record, nil
}

func (t *mysqlTx) CloseRecord(ctx context.Context, recordID int64, exit time.Time, duration int, fee decimal.Decimal) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE parking_records
		SET exit_time = ?, duration = ?, fee = ?
		WHERE record_id = ? AND exit_time IS NULL`,
		exit, duration, fee, recordID,
	)
	if err != nil {
		return mapError("close parking record", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrAlreadyClosed
	}
	return nil
}

func (t *mysqlTx) InsertParkingPayment(ctx context.Context, payment domain.ParkingPayment) (int64, error) {
	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO parking_payments (record_id, amount_paid, payment_date)
		VALUES (?, ?, ?)`,
		payment.RecordID, payment.AmountPaid, payment.PaymentDate,
	)
	if err != nil {
		return 0, mapError("insert parking payment", err)
	}
	return lastInsertID("insert parking payment", result)
}

func (t *mysqlTx) InsertPart(ctx context.Context, part domain.SparePart) (int64, error) {
	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO spare_parts (name, category, quantity, unit_price, total_price)
		VALUES (?, ?, 0, ?, 0)`,
		part.Name, part.Category, part.UnitPrice,
	)
	if err != nil {
		return 0, mapError("insert spare part", err)
	}
	return lastInsertID("insert spare part", result)
}

func (t *mysqlTx) LockPart(ctx context.Context, partID int64) (domain.SparePart, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT part_id, name, category, quantity, unit_price, total_price, created_at
		FROM spare_parts WHERE part_id = ? FOR UPDATE`, partID)
	part, err := scanPart(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SparePart{}, domain.ErrPartNotFound
	}
	if err != nil {
		return domain.SparePart{}, mapError("lock spare part", err)
	}
	return part, nil
}

// ApplyPartDelta relies on MySQL evaluating SET assignments left to right, so
// total_price is computed from the updated quantity.
func (t *mysqlTx) ApplyPartDelta(ctx context.Context, partID int64, delta int) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE spare_parts
		SET quantity = quantity + ?, total_price = quantity * unit_price
		WHERE part_id = ? AND quantity + ? >= 0`,
		delta, partID, delta,
	)
	if err != nil {
		return mapError("update spare part", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInsufficientQuantity
	}
	return nil
}

func (t *mysqlTx) InsertMovement(ctx context.Context, movement domain.StockMovement) (int64, error) {
	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO stock_movements (part_id, direction, quantity, unit_price, total_price, movement_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		movement.PartID, movement.Direction, movement.Quantity,
		movement.UnitPrice, movement.TotalPrice, movement.Date,
	)
	if err != nil {
		return 0, mapError("insert stock movement", err)
	}
	return lastInsertID("insert stock movement", result)
}

func (t *mysqlTx) LockMovement(ctx context.Context, movementID int64) (domain.StockMovement, error) {
	var mv domain.StockMovement
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, part_id, direction, quantity, unit_price, total_price, movement_date, created_at
		FROM stock_movements WHERE id = ? FOR UPDATE`, movementID,
	).Scan(&mv.ID, &mv.PartID, &mv.Direction, &mv.Quantity, &mv.UnitPrice, &mv.TotalPrice, &mv.Date, &mv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StockMovement{}, domain.ErrMovementNotFound
	}
	if err != nil {
		return domain.StockMovement{}, mapError("lock stock movement", err)
	}
	return mv, nil
}

// UpdateMovement runs on a row already locked by LockMovement.
func (t *mysqlTx) UpdateMovement(ctx context.Context, movement domain.StockMovement) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE stock_movements
		SET quantity = ?, unit_price = ?, total_price = ?, movement_date = ?
		WHERE id = ?`,
		movement.Quantity, movement.UnitPrice, movement.TotalPrice, movement.Date, movement.ID,
	)
	if err != nil {
		return mapError("update stock movement", err)
	}
	return nil
}

func (t *mysqlTx) DeleteMovement(ctx context.Context, movementID int64) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM stock_movements WHERE id = ?`, movementID)
	if err != nil {
		return mapError("delete stock movement", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrMovementNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (domain.ParkingRecord, error) {
	var (
		r        domain.ParkingRecord
		exit     sql.NullTime
		duration sql.NullInt64
		fee      decimal.NullDecimal
	)
	if err := row.Scan(&r.ID, &r.PlateNumber, &r.SlotNumber, &r.EntryTime, &exit, &duration, &fee); err != nil {
		return domain.ParkingRecord{}, err
	}
	if exit.Valid {
		r.ExitTime = &exit.Time
	}
	if duration.Valid {
		d := int(duration.Int64)
		r.Duration = &d
	}
	if fee.Valid {
		r.Fee = &fee.Decimal
	}
	return r, nil
}

func scanPart(row rowScanner) (domain.SparePart, error) {
	var p domain.SparePart
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Quantity, &p.UnitPrice, &p.TotalPrice, &p.CreatedAt)
	return p, err
}

func lastInsertID(op string, result sql.Result) (int64, error) {
	id, err := result.LastInsertId()
	if err != nil {
		return 0, domain.StorageError(op, err)
	}
	return id, nil
}
