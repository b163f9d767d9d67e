// Package export renders report data as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/rl1809/garage-ledger/internal/core/domain"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheet struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

func ParkingReport(w io.Writer, r domain.ParkingReport) error {
	revenue := sheet{name: "Daily revenue", header: []interface{}{"Date", "Total revenue", "Transactions"}}
	for _, d := range r.DailyRevenue {
		revenue.rows = append(revenue.rows, []interface{}{d.Date, d.TotalRevenue.InexactFloat64(), d.TotalTransactions})
	}
	usage := sheet{name: "Slot usage", header: []interface{}{"Slot", "Total usage"}}
	for _, u := range r.SlotUsage {
		usage.rows = append(usage.rows, []interface{}{u.SlotNumber, u.TotalUsage})
	}
	return write(w, revenue, usage)
}

func StockReport(w io.Writer, lines []domain.StockReportLine) error {
	s := sheet{name: "Stock", header: []interface{}{"Part ID", "Name", "Stock in", "Stock out", "Quantity", "Total price"}}
	for _, l := range lines {
		s.rows = append(s.rows, []interface{}{l.PartID, l.Name, l.StockIn, l.StockOut, l.Quantity, l.TotalPrice.InexactFloat64()})
	}
	return write(w, s)
}

func PaymentReport(w io.Writer, lines []domain.PaymentReportLine) error {
	s := sheet{name: "Payments", header: []interface{}{"Date", "User", "Plate", "Service", "Amount paid"}}
	for _, l := range lines {
		s.rows = append(s.rows, []interface{}{
			l.PaymentDate.Format("2006-01-02 15:04"), l.Username, l.PlateNumber, l.ServiceName, l.AmountPaid.InexactFloat64(),
		})
	}
	return write(w, s)
}

func write(w io.Writer, sheets ...sheet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	first := f.GetSheetName(f.GetActiveSheetIndex())
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(first, s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("new sheet %s: %w", s.name, err)
		}

		if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
			return fmt.Errorf("%s header: %w", s.name, err)
		}
		for n, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, n+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("%s row %d: %w", s.name, n+2, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
