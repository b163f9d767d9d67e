package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/garage-ledger/internal/adapter/storage"
	"github.com/rl1809/garage-ledger/internal/core/domain"
	"github.com/rl1809/garage-ledger/internal/core/service"
	"github.com/rl1809/garage-ledger/internal/pkg/logger"
	"github.com/rl1809/garage-ledger/migrations"
)

func main() {
	dsn := flag.String("dsn", "root:root@tcp(localhost:3306)/garage_test?parseTime=true", "MySQL DSN")
	totalRequests := flag.Int("requests", 50, "concurrent requests per scenario")
	initialStock := flag.Int("stock", 20, "initial spare part quantity")
	flag.Parse()

	ctx := context.Background()

	db, err := storage.OpenMySQL(ctx, *dsn)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()
	if err := migrations.Run(ctx, db, "up"); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	adapter := storage.NewMySQLAdapter(db)
	lg := logger.Nop()
	parking := service.NewParkingService(adapter, nil, lg, decimal.NewFromInt(500), time.Now)
	stock := service.NewStockService(adapter, nil, lg, time.Now)

	run := fmt.Sprintf("%d", time.Now().UnixNano()%1_000_000)
	ok := true
	ok = occupancyRace(ctx, adapter, parking, run, *totalRequests) && ok
	ok = stockOutRace(ctx, adapter, stock, run, *initialStock, *totalRequests) && ok
	if !ok {
		os.Exit(1)
	}
}

// occupancyRace parks many different cars in one slot at once. Exactly one
// entry may win.
func occupancyRace(ctx context.Context, adapter *storage.MySQLAdapter, parking *service.ParkingService, run string, n int) bool {
	slot := "S-" + run
	if err := adapter.CreateSlot(ctx, slot); err != nil {
		log.Fatalf("failed to create slot: %v", err)
	}
	plates := make([]string, n)
	for i := range plates {
		plates[i] = fmt.Sprintf("ST%s-%d", run, i)
		if err := adapter.CreateCar(ctx, domain.Car{PlateNumber: plates[i], Type: "sedan"}); err != nil {
			log.Fatalf("failed to create car: %v", err)
		}
	}

	success, fail, elapsed := race(n, func(i int) error {
		_, err := parking.OpenOccupancy(ctx, slot, domain.OccupancyDetail{PlateNumber: plates[i]})
		return err
	})
	report("OCCUPANCY", n, success, fail, elapsed)

	if success != 1 {
		fmt.Printf("FAIL: Expected exactly 1 car parked, got %d\n", success)
		return false
	}
	fmt.Println("PASS: Exactly 1 car parked")
	return true
}

// stockOutRace issues one-unit stock outs against a part holding initial
// units. Exactly initial of them may succeed and the part ends at zero.
func stockOutRace(ctx context.Context, adapter *storage.MySQLAdapter, stock *service.StockService, run string, initial, n int) bool {
	partID, err := stock.CreatePart(ctx, domain.SparePart{
		Name:      "stress-" + run,
		Category:  "stress",
		Quantity:  initial,
		UnitPrice: decimal.NewFromInt(3),
	})
	if err != nil {
		log.Fatalf("failed to create part: %v", err)
	}

	success, fail, elapsed := race(n, func(int) error {
		_, err := stock.StockOut(ctx, partID, 1, domain.StockDetail{UnitPrice: decimal.NewFromInt(3)})
		return err
	})
	report("STOCK OUT", n, success, fail, elapsed)

	want := int32(min(initial, n))
	passed := true
	if success == want {
		fmt.Printf("PASS: Exactly %d stock outs succeeded\n", want)
	} else {
		fmt.Printf("FAIL: Expected %d stock outs, got %d\n", want, success)
		passed = false
	}

	parts, err := adapter.ListParts(ctx)
	if err != nil {
		log.Fatalf("failed to read parts: %v", err)
	}
	quantity := -1
	for _, p := range parts {
		if p.ID == partID {
			quantity = p.Quantity
		}
	}
	fmt.Printf("Final Quantity:   %d\n", quantity)
	if quantity == initial-int(want) {
		fmt.Println("PASS: Quantity matches the ledger")
	} else {
		fmt.Printf("FAIL: Expected quantity %d, got %d\n", initial-int(want), quantity)
		passed = false
	}
	return passed
}

func race(n int, fn func(i int) error) (success, fail int32, elapsed time.Duration) {
	var successCount, failCount atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := fn(i); err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	return successCount.Load(), failCount.Load(), time.Since(start)
}

func report(name string, n int, success, fail int32, elapsed time.Duration) {
	fmt.Printf("========== %s RESULTS ==========\n", name)
	fmt.Printf("Total Requests:   %d\n", n)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")
}
