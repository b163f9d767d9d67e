package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rl1809/garage-ledger/internal/core/domain"
)

// exec runs a single-row write and reports ErrNotFound when nothing matched.
// The connection is opened with clientFoundRows, so an update that leaves the
// row unchanged still counts as matched.
func (m *MySQLAdapter) exec(ctx context.Context, op, what string, query string, args ...any) error {
	result, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(op, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%s %w", what, domain.ErrNotFound)
	}
	return nil
}

func (m *MySQLAdapter) insert(ctx context.Context, op string, query string, args ...any) (int64, error) {
	result, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapError(op, err)
	}
	return lastInsertID(op, result)
}

func (m *MySQLAdapter) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, department_code, department_name, gross_salary
		FROM departments ORDER BY department_code`)
	if err != nil {
		return nil, mapError("list departments", err)
	}
	defer rows.Close()

	var out []domain.Department
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.Code, &d.Name, &d.GrossSalary); err != nil {
			return nil, mapError("scan department", err)
		}
		out = append(out, d)
	}
	return out, wrapRowsErr("list departments", rows.Err())
}

func (m *MySQLAdapter) CreateDepartment(ctx context.Context, d domain.Department) (int64, error) {
	return m.insert(ctx, "insert department", `
		INSERT INTO departments (department_code, department_name, gross_salary)
		VALUES (?, ?, ?)`, d.Code, d.Name, d.GrossSalary)
}

func (m *MySQLAdapter) UpdateDepartment(ctx context.Context, d domain.Department) error {
	return m.exec(ctx, "update department", "department", `
		UPDATE departments SET department_code = ?, department_name = ?, gross_salary = ?
		WHERE id = ?`, d.Code, d.Name, d.GrossSalary, d.ID)
}

func (m *MySQLAdapter) DeleteDepartment(ctx context.Context, id int64) error {
	return m.exec(ctx, "delete department", "department", `DELETE FROM departments WHERE id = ?`, id)
}

func (m *MySQLAdapter) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT e.id, e.employee_number, e.first_name, e.last_name, e.position, e.address,
			e.telephone, e.department_id, d.department_name
		FROM employees e
		JOIN departments d ON d.id = e.department_id
		ORDER BY e.employee_number`)
	if err != nil {
		return nil, mapError("list employees", err)
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.EmployeeNumber, &e.FirstName, &e.LastName, &e.Position,
			&e.Address, &e.Telephone, &e.DepartmentID, &e.DepartmentName); err != nil {
			return nil, mapError("scan employee", err)
		}
		out = append(out, e)
	}
	return out, wrapRowsErr("list employees", rows.Err())
}

func (m *MySQLAdapter) CreateEmployee(ctx context.Context, e domain.Employee) (int64, error) {
	return m.insert(ctx, "insert employee", `
		INSERT INTO employees (employee_number, first_name, last_name, position, address, telephone, department_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.EmployeeNumber, e.FirstName, e.LastName, e.Position, e.Address, e.Telephone, e.DepartmentID)
}

func (m *MySQLAdapter) UpdateEmployee(ctx context.Context, e domain.Employee) error {
	return m.exec(ctx, "update employee", "employee", `
		UPDATE employees
		SET employee_number = ?, first_name = ?, last_name = ?, position = ?, address = ?,
			telephone = ?, department_id = ?
		WHERE id = ?`,
		e.EmployeeNumber, e.FirstName, e.LastName, e.Position, e.Address, e.Telephone, e.DepartmentID, e.ID)
}

func (m *MySQLAdapter) DeleteEmployee(ctx context.Context, id int64) error {
	return m.exec(ctx, "delete employee", "employee", `DELETE FROM employees WHERE id = ?`, id)
}

func (m *MySQLAdapter) ListSalaries(ctx context.Context) ([]domain.Salary, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT s.id, s.employee_id, s.total_deduction, s.net_salary, s.month,
			e.first_name, e.last_name, e.position, d.department_name
		FROM salaries s
		JOIN employees e ON e.id = s.employee_id
		JOIN departments d ON d.id = e.department_id
		ORDER BY s.month DESC, e.last_name`)
	if err != nil {
		return nil, mapError("list salaries", err)
	}
	defer rows.Close()

	var out []domain.Salary
	for rows.Next() {
		var s domain.Salary
		if err := rows.Scan(&s.ID, &s.EmployeeID, &s.TotalDeduction, &s.NetSalary, &s.Month,
			&s.FirstName, &s.LastName, &s.Position, &s.DepartmentName); err != nil {
			return nil, mapError("scan salary", err)
		}
		out = append(out, s)
	}
	return out, wrapRowsErr("list salaries", rows.Err())
}

func (m *MySQLAdapter) CreateSalary(ctx context.Context, s domain.Salary) (int64, error) {
	return m.insert(ctx, "insert salary", `
		INSERT INTO salaries (employee_id, total_deduction, net_salary, month)
		VALUES (?, ?, ?, ?)`, s.EmployeeID, s.TotalDeduction, s.NetSalary, s.Month)
}

func (m *MySQLAdapter) UpdateSalary(ctx context.Context, s domain.Salary) error {
	return m.exec(ctx, "update salary", "salary", `
		UPDATE salaries SET employee_id = ?, total_deduction = ?, net_salary = ?, month = ?
		WHERE id = ?`, s.EmployeeID, s.TotalDeduction, s.NetSalary, s.Month, s.ID)
}

func (m *MySQLAdapter) DeleteSalary(ctx context.Context, id int64) error {
	return m.exec(ctx, "delete salary", "salary", `DELETE FROM salaries WHERE id = ?`, id)
}

func (m *MySQLAdapter) ListServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT service_code, service_name, price FROM services ORDER BY service_code`)
	if err != nil {
		return nil, mapError("list services", err)
	}
	defer rows.Close()

	var out []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.Code, &s.Name, &s.Price); err != nil {
			return nil, mapError("scan service", err)
		}
		out = append(out, s)
	}
	return out, wrapRowsErr("list services", rows.Err())
}

func (m *MySQLAdapter) CreateService(ctx context.Context, s domain.Service) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO services (service_code, service_name, price) VALUES (?, ?, ?)`,
		s.Code, s.Name, s.Price)
	if err != nil {
		return mapError("insert service", err)
	}
	return nil
}

func (m *MySQLAdapter) UpdateService(ctx context.Context, s domain.Service) error {
	return m.exec(ctx, "update service", "service", `
		UPDATE services SET service_name = ?, price = ? WHERE service_code = ?`,
		s.Name, s.Price, s.Code)
}

func (m *MySQLAdapter) DeleteService(ctx context.Context, code string) error {
	return m.exec(ctx, "delete service", "service", `DELETE FROM services WHERE service_code = ?`, code)
}

func (m *MySQLAdapter) ListCars(ctx context.Context) ([]domain.Car, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT plate_number, car_type, model, manufacturing_year, driver_name, driver_phone, mechanic_name
		FROM cars ORDER BY plate_number`)
	if err != nil {
		return nil, mapError("list cars", err)
	}
	defer rows.Close()

	var out []domain.Car
	for rows.Next() {
		var c domain.Car
		if err := rows.Scan(&c.PlateNumber, &c.Type, &c.Model, &c.ManufacturingYear,
			&c.DriverName, &c.DriverPhone, &c.MechanicName); err != nil {
			return nil, mapError("scan car", err)
		}
		out = append(out, c)
	}
	return out, wrapRowsErr("list cars", rows.Err())
}

func (m *MySQLAdapter) CreateCar(ctx context.Context, c domain.Car) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO cars (plate_number, car_type, model, manufacturing_year, driver_name, driver_phone, mechanic_name)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.PlateNumber, c.Type, c.Model, c.ManufacturingYear, c.DriverName, c.DriverPhone, c.MechanicName)
	if err != nil {
		return mapError("insert car", err)
	}
	return nil
}

func (m *MySQLAdapter) UpdateCar(ctx context.Context, c domain.Car) error {
	return m.exec(ctx, "update car", "car", `
		UPDATE cars
		SET car_type = ?, model = ?, manufacturing_year = ?, driver_name = ?, driver_phone = ?, mechanic_name = ?
		WHERE plate_number = ?`,
		c.Type, c.Model, c.ManufacturingYear, c.DriverName, c.DriverPhone, c.MechanicName, c.PlateNumber)
}

func (m *MySQLAdapter) DeleteCar(ctx context.Context, plateNumber string) error {
	return m.exec(ctx, "delete car", "car", `DELETE FROM cars WHERE plate_number = ?`, plateNumber)
}

func (m *MySQLAdapter) ListServiceRecords(ctx context.Context) ([]domain.ServiceRecord, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT sr.record_number, sr.service_date, sr.plate_number, sr.service_code,
			c.car_type, c.model, s.service_name, s.price
		FROM service_records sr
		JOIN cars c ON c.plate_number = sr.plate_number
		JOIN services s ON s.service_code = sr.service_code
		ORDER BY sr.service_date DESC, sr.record_number DESC`)
	if err != nil {
		return nil, mapError("list service records", err)
	}
	defer rows.Close()

	var out []domain.ServiceRecord
	for rows.Next() {
		var r domain.ServiceRecord
		if err := rows.Scan(&r.RecordNumber, &r.ServiceDate, &r.PlateNumber, &r.ServiceCode,
			&r.CarType, &r.Model, &r.ServiceName, &r.Price); err != nil {
			return nil, mapError("scan service record", err)
		}
		out = append(out, r)
	}
	return out, wrapRowsErr("list service records", rows.Err())
}

func (m *MySQLAdapter) CreateServiceRecord(ctx context.Context, r domain.ServiceRecord) (int64, error) {
	return m.insert(ctx, "insert service record", `
		INSERT INTO service_records (service_date, plate_number, service_code)
		VALUES (?, ?, ?)`, r.ServiceDate, r.PlateNumber, r.ServiceCode)
}

func (m *MySQLAdapter) DeleteServiceRecord(ctx context.Context, recordNumber int64) error {
	return m.exec(ctx, "delete service record", "service record",
		`DELETE FROM service_records WHERE record_number = ?`, recordNumber)
}

func (m *MySQLAdapter) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT p.payment_number, p.amount_paid, p.payment_date, p.record_number,
			COALESCE(p.user_id, 0), COALESCE(u.username, ''), sr.plate_number, s.service_name
		FROM payments p
		JOIN service_records sr ON sr.record_number = p.record_number
		JOIN services s ON s.service_code = sr.service_code
		LEFT JOIN users u ON u.id = p.user_id
		ORDER BY p.payment_date DESC`)
	if err != nil {
		return nil, mapError("list payments", err)
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.PaymentNumber, &p.AmountPaid, &p.PaymentDate, &p.RecordNumber,
			&p.UserID, &p.Username, &p.PlateNumber, &p.ServiceName); err != nil {
			return nil, mapError("scan payment", err)
		}
		out = append(out, p)
	}
	return out, wrapRowsErr("list payments", rows.Err())
}

func (m *MySQLAdapter) CreatePayment(ctx context.Context, p domain.Payment) (int64, error) {
	return m.insert(ctx, "insert payment", `
		INSERT INTO payments (amount_paid, payment_date, record_number, user_id)
		VALUES (?, ?, ?, ?)`, p.AmountPaid, p.PaymentDate, p.RecordNumber, p.UserID)
}

func (m *MySQLAdapter) CreateSlot(ctx context.Context, slotNumber string) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO parking_slots (slot_number, slot_status) VALUES (?, ?)`,
		slotNumber, domain.SlotAvailable)
	if err != nil {
		return mapError("insert slot", err)
	}
	return nil
}

// DeleteSlot only removes available slots. An occupied slot would cascade away
// its open parking record.
func (m *MySQLAdapter) DeleteSlot(ctx context.Context, slotNumber string) error {
	result, err := m.db.ExecContext(ctx, `
		DELETE FROM parking_slots WHERE slot_number = ? AND slot_status = ?`,
		slotNumber, domain.SlotAvailable)
	if err != nil {
		return mapError("delete slot", err)
	}
	if rows, _ := result.RowsAffected(); rows > 0 {
		return nil
	}

	var status domain.SlotStatus
	err = m.db.QueryRowContext(ctx, `
		SELECT slot_status FROM parking_slots WHERE slot_number = ?`, slotNumber,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrSlotNotFound
	}
	if err != nil {
		return mapError("query slot", err)
	}
	return domain.ErrSlotOccupied
}

func (m *MySQLAdapter) ListParts(ctx context.Context) ([]domain.SparePart, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT part_id, name, category, quantity, unit_price, total_price, created_at
		FROM spare_parts ORDER BY name`)
	if err != nil {
		return nil, mapError("list spare parts", err)
	}
	defer rows.Close()

	var out []domain.SparePart
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, mapError("scan spare part", err)
		}
		out = append(out, p)
	}
	return out, wrapRowsErr("list spare parts", rows.Err())
}

func (m *MySQLAdapter) UpdatePart(ctx context.Context, id int64, name, category string, unitPrice decimal.Decimal) error {
	return m.exec(ctx, "update spare part", "spare part", `
		UPDATE spare_parts
		SET name = ?, category = ?, unit_price = ?, total_price = quantity * unit_price
		WHERE part_id = ?`, name, category, unitPrice, id)
}

func (m *MySQLAdapter) DeletePart(ctx context.Context, id int64) error {
	return m.exec(ctx, "delete spare part", "spare part", `DELETE FROM spare_parts WHERE part_id = ?`, id)
}

func wrapRowsErr(op string, err error) error {
	if err != nil {
		return mapError(op, err)
	}
	return nil
}
