package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/rl1809/garage-ledger/internal/core/domain"
)

func TestParkingReport(t *testing.T) {
	report := domain.ParkingReport{
		DailyRevenue: []domain.DailyRevenue{
			{Date: "2025-03-01", TotalRevenue: decimal.NewFromInt(1500), TotalTransactions: 2},
		},
		SlotUsage: []domain.SlotUsage{
			{SlotNumber: "A1", TotalUsage: 2},
			{SlotNumber: "B4", TotalUsage: 1},
		},
	}

	var buf bytes.Buffer
	if err := ParkingReport(&buf, report); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Daily revenue")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "2025-03-01" || rows[1][1] != "1500" {
		t.Errorf("unexpected revenue rows %v", rows)
	}

	usage, err := f.GetRows("Slot usage")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(usage) != 3 || usage[2][0] != "B4" {
		t.Errorf("unexpected usage rows %v", usage)
	}
}

func TestStockReport_EmptyHasHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := StockReport(&buf, nil); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Stock")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 1 || rows[0][1] != "Name" {
		t.Errorf("unexpected rows %v", rows)
	}
}
