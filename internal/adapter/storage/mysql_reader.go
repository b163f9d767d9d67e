package storage

import (
	"context"

	"github.com/rl1809/garage-ledger/internal/core/domain"
)

func (m *MySQLAdapter) ListSlots(ctx context.Context) ([]domain.ParkingSlot, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT slot_number, slot_status FROM parking_slots ORDER BY slot_number`)
	if err != nil {
		return nil, mapError("list slots", err)
	}
	defer rows.Close()

	var slots []domain.ParkingSlot
	for rows.Next() {
		var s domain.ParkingSlot
		if err := rows.Scan(&s.Number, &s.Status); err != nil {
			return nil, mapError("scan slot", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list slots", err)
	}
	return slots, nil
}

// Occupancy counts slots per status.
func (m *MySQLAdapter) Occupancy(ctx context.Context) (domain.Occupancy, error) {
	var o domain.Occupancy
	err := m.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(slot_status = 'available'), 0),
			COALESCE(SUM(slot_status = 'occupied'), 0)
		FROM parking_slots`,
	).Scan(&o.Available, &o.Occupied)
	if err != nil {
		return domain.Occupancy{}, mapError("count occupancy", err)
	}
	return o, nil
}

func (m *MySQLAdapter) ListRecords(ctx context.Context, activeOnly bool) ([]domain.ParkingRecord, error) {
	query := `
		SELECT record_id, plate_number, slot_number, entry_time, exit_time, duration, fee
		FROM parking_records`
	if activeOnly {
		query += ` WHERE exit_time IS NULL`
	}
	query += ` ORDER BY entry_time DESC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("list parking records", err)
	}
	defer rows.Close()

	var records []domain.ParkingRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, mapError("scan parking record", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list parking records", err)
	}
	return records, nil
}

func (m *MySQLAdapter) ListParkingPayments(ctx context.Context) ([]domain.ParkingPayment, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT pp.payment_id, pp.record_id, pr.plate_number, pp.amount_paid, pp.payment_date
		FROM parking_payments pp
		JOIN parking_records pr ON pr.record_id = pp.record_id
		ORDER BY pp.payment_date DESC`)
	if err != nil {
		return nil, mapError("list parking payments", err)
	}
	defer rows.Close()

	var payments []domain.ParkingPayment
	for rows.Next() {
		var p domain.ParkingPayment
		if err := rows.Scan(&p.ID, &p.RecordID, &p.PlateNumber, &p.AmountPaid, &p.PaymentDate); err != nil {
			return nil, mapError("scan parking payment", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list parking payments", err)
	}
	return payments, nil
}

func (m *MySQLAdapter) ListMovements(ctx context.Context, direction domain.MovementDirection) ([]domain.StockMovement, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT sm.id, sm.part_id, sp.name, sp.category, sm.direction, sm.quantity, sm.unit_price,
			sm.total_price, sm.movement_date, sm.created_at
		FROM stock_movements sm
		JOIN spare_parts sp ON sp.part_id = sm.part_id
		WHERE sm.direction = ?
		ORDER BY sm.movement_date DESC, sm.id DESC`, direction)
	if err != nil {
		return nil, mapError("list stock movements", err)
	}
	defer rows.Close()

	var movements []domain.StockMovement
	for rows.Next() {
		var mv domain.StockMovement
		if err := rows.Scan(&mv.ID, &mv.PartID, &mv.PartName, &mv.Category, &mv.Direction, &mv.Quantity,
			&mv.UnitPrice, &mv.TotalPrice, &mv.Date, &mv.CreatedAt); err != nil {
			return nil, mapError("scan stock movement", err)
		}
		movements = append(movements, mv)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list stock movements", err)
	}
	return movements, nil
}
