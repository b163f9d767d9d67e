package storage

import (
	"context"
	"database/sql"

	"github.com/rl1809/garage-ledger/internal/core/domain"
)

const dayLayout = "2006-01-02"

// DashboardStats summarises parking. Revenue is the sum of fees billed on
// closed records and the average duration ignores open ones.
func (m *MySQLAdapter) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	var (
		s   domain.DashboardStats
		avg sql.NullFloat64
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM parking_slots),
			(SELECT COUNT(*) FROM parking_slots WHERE slot_status = 'available'),
			(SELECT COUNT(*) FROM cars),
			(SELECT COUNT(*) FROM parking_records WHERE exit_time IS NULL),
			(SELECT COALESCE(SUM(fee), 0) FROM parking_records WHERE exit_time IS NOT NULL),
			(SELECT AVG(duration) FROM parking_records WHERE exit_time IS NOT NULL)`,
	).Scan(&s.TotalSlots, &s.AvailableSlots, &s.TotalCars, &s.ActiveParking, &s.TotalRevenue, &avg)
	if err != nil {
		return domain.DashboardStats{}, mapError("dashboard stats", err)
	}
	s.AverageDuration = avg.Float64
	return s, nil
}

func (m *MySQLAdapter) ParkingReport(ctx context.Context, r domain.DateRange) (domain.ParkingReport, error) {
	from, to := r.From.Format(dayLayout), r.To.Format(dayLayout)
	report := domain.ParkingReport{
		DailyRevenue: []domain.DailyRevenue{},
		SlotUsage:    []domain.SlotUsage{},
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT DATE_FORMAT(exit_time, '%Y-%m-%d') AS day, COALESCE(SUM(fee), 0), COUNT(*)
		FROM parking_records
		WHERE exit_time IS NOT NULL AND DATE(exit_time) BETWEEN ? AND ?
		GROUP BY day
		ORDER BY day`, from, to)
	if err != nil {
		return domain.ParkingReport{}, mapError("daily revenue", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d domain.DailyRevenue
		if err := rows.Scan(&d.Date, &d.TotalRevenue, &d.TotalTransactions); err != nil {
			return domain.ParkingReport{}, mapError("scan daily revenue", err)
		}
		report.DailyRevenue = append(report.DailyRevenue, d)
	}
	if err := rows.Err(); err != nil {
		return domain.ParkingReport{}, mapError("daily revenue", err)
	}

	usage, err := m.db.QueryContext(ctx, `
		SELECT slot_number, COUNT(*)
		FROM parking_records
		WHERE DATE(entry_time) BETWEEN ? AND ?
		GROUP BY slot_number
		ORDER BY COUNT(*) DESC, slot_number`, from, to)
	if err != nil {
		return domain.ParkingReport{}, mapError("slot usage", err)
	}
	defer usage.Close()
	for usage.Next() {
		var u domain.SlotUsage
		if err := usage.Scan(&u.SlotNumber, &u.TotalUsage); err != nil {
			return domain.ParkingReport{}, mapError("scan slot usage", err)
		}
		report.SlotUsage = append(report.SlotUsage, u)
	}
	if err := usage.Err(); err != nil {
		return domain.ParkingReport{}, mapError("slot usage", err)
	}
	return report, nil
}

// StockReport totals movements per part inside the range. Quantity and value
// are the part's current aggregate, not a figure for the range.
func (m *MySQLAdapter) StockReport(ctx context.Context, r domain.DateRange) ([]domain.StockReportLine, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT sp.part_id, sp.name,
			COALESCE(SUM(CASE WHEN sm.direction = 'in' THEN sm.quantity END), 0),
			COALESCE(SUM(CASE WHEN sm.direction = 'out' THEN -sm.quantity END), 0),
			sp.quantity, sp.total_price
		FROM spare_parts sp
		LEFT JOIN stock_movements sm
			ON sm.part_id = sp.part_id AND sm.movement_date BETWEEN ? AND ?
		GROUP BY sp.part_id, sp.name, sp.quantity, sp.total_price
		ORDER BY sp.name`, r.From.Format(dayLayout), r.To.Format(dayLayout))
	if err != nil {
		return nil, mapError("stock report", err)
	}
	defer rows.Close()

	out := []domain.StockReportLine{}
	for rows.Next() {
		var l domain.StockReportLine
		if err := rows.Scan(&l.PartID, &l.Name, &l.StockIn, &l.StockOut, &l.Quantity, &l.TotalPrice); err != nil {
			return nil, mapError("scan stock report", err)
		}
		out = append(out, l)
	}
	return out, wrapRowsErr("stock report", rows.Err())
}

func (m *MySQLAdapter) PaymentReport(ctx context.Context, r domain.DateRange) ([]domain.PaymentReportLine, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT p.payment_date, COALESCE(u.username, ''), sr.plate_number, s.service_name, p.amount_paid
		FROM payments p
		JOIN service_records sr ON sr.record_number = p.record_number
		JOIN services s ON s.service_code = sr.service_code
		LEFT JOIN users u ON u.id = p.user_id
		WHERE DATE(p.payment_date) BETWEEN ? AND ?
		ORDER BY p.payment_date`, r.From.Format(dayLayout), r.To.Format(dayLayout))
	if err != nil {
		return nil, mapError("payment report", err)
	}
	defer rows.Close()

	out := []domain.PaymentReportLine{}
	for rows.Next() {
		var l domain.PaymentReportLine
		if err := rows.Scan(&l.PaymentDate, &l.Username, &l.PlateNumber, &l.ServiceName, &l.AmountPaid); err != nil {
			return nil, mapError("scan payment report", err)
		}
		out = append(out, l)
	}
	return out, wrapRowsErr("payment report", rows.Err())
}

func (m *MySQLAdapter) Payroll(ctx context.Context, month string) ([]domain.PayrollLine, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT e.first_name, e.last_name, e.position, d.department_name, s.net_salary
		FROM salaries s
		JOIN employees e ON e.id = s.employee_id
		JOIN departments d ON d.id = e.department_id
		WHERE s.month = ?
		ORDER BY d.department_name, e.last_name`, month)
	if err != nil {
		return nil, mapError("payroll", err)
	}
	defer rows.Close()

	out := []domain.PayrollLine{}
	for rows.Next() {
		var l domain.PayrollLine
		if err := rows.Scan(&l.FirstName, &l.LastName, &l.Position, &l.DepartmentName, &l.NetSalary); err != nil {
			return nil, mapError("scan payroll", err)
		}
		out = append(out, l)
	}
	return out, wrapRowsErr("payroll", rows.Err())
}
