package service

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/garage-ledger/internal/core/domain"
	"github.com/rl1809/garage-ledger/internal/port"
)

var errInjected = errors.New("injected failure")

// memLedger serializes transactions behind one mutex, which stands in for the
// row locks MySQL takes. A failed transaction restores the snapshot taken when
// it began.
type memLedger struct {
	mu        sync.Mutex
	slots     map[string]domain.SlotStatus
	cars      map[string]bool
	records   map[int64]domain.ParkingRecord
	payments  map[int64]domain.ParkingPayment
	parts     map[int64]domain.SparePart
	movements map[int64]domain.StockMovement
	nextID    int64
	failOn    string
	commits   int
}

func newMemLedger() *memLedger {
	return &memLedger{
		slots:     make(map[string]domain.SlotStatus),
		cars:      make(map[string]bool),
		records:   make(map[int64]domain.ParkingRecord),
		payments:  make(map[int64]domain.ParkingPayment),
		parts:     make(map[int64]domain.SparePart),
		movements: make(map[int64]domain.StockMovement),
	}
}

func (m *memLedger) addSlot(number string, status domain.SlotStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[number] = status
}

func (m *memLedger) addCar(plate string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars[plate] = true
}

func (m *memLedger) addPart(id int64, qty int, unitPrice int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := domain.SparePart{ID: id, Name: "part", Quantity: qty, UnitPrice: decimal.NewFromInt(unitPrice)}
	p.TotalPrice = p.Valuation(qty)
	m.parts[id] = p
}

func (m *memLedger) slot(number string) domain.SlotStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[number]
}

func (m *memLedger) part(id int64) domain.SparePart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.parts[id]
}

func (m *memLedger) recordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *memLedger) movementCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.movements)
}

// movementSum is the sum of stored deltas for a part.
func (m *memLedger) movementSum(partID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := 0
	for _, mv := range m.movements {
		if mv.PartID == partID {
			sum += mv.Quantity
		}
	}
	return sum
}

func (m *memLedger) failNext(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn = method
}

type memSnapshot struct {
	slots     map[string]domain.SlotStatus
	records   map[int64]domain.ParkingRecord
	payments  map[int64]domain.ParkingPayment
	parts     map[int64]domain.SparePart
	movements map[int64]domain.StockMovement
	nextID    int64
}

func (m *memLedger) WithinTx(ctx context.Context, fn func(tx port.LedgerTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := memSnapshot{
		slots:     maps.Clone(m.slots),
		records:   maps.Clone(m.records),
		payments:  maps.Clone(m.payments),
		parts:     maps.Clone(m.parts),
		movements: maps.Clone(m.movements),
		nextID:    m.nextID,
	}
	if err := fn(&memTx{m: m}); err != nil {
		m.slots = snap.slots
		m.records = snap.records
		m.payments = snap.payments
		m.parts = snap.parts
		m.movements = snap.movements
		m.nextID = snap.nextID
		return err
	}
	m.commits++
	return nil
}

// memTx runs with memLedger.mu already held.
type memTx struct {
	m *memLedger
}

func (t *memTx) fail(method string) error {
	if t.m.failOn == method {
		t.m.failOn = ""
		return domain.StorageError(method, errInjected)
	}
	return nil
}

func (t *memTx) id() int64 {
	t.m.nextID++
	return t.m.nextID
}

func (t *memTx) LockSlot(ctx context.Context, slotNumber string) (domain.ParkingSlot, error) {
	if err := t.fail("LockSlot"); err != nil {
		return domain.ParkingSlot{}, err
	}
	status, ok := t.m.slots[slotNumber]
	if !ok {
		return domain.ParkingSlot{}, domain.ErrSlotNotFound
	}
	return domain.ParkingSlot{Number: slotNumber, Status: status}, nil
}

func (t *memTx) SetSlotStatus(ctx context.Context, slotNumber string, from, to domain.SlotStatus) error {
	if err := t.fail("SetSlotStatus"); err != nil {
		return err
	}
	status, ok := t.m.slots[slotNumber]
	if !ok {
		return domain.ErrSlotNotFound
	}
	if status != from {
		if from == domain.SlotAvailable {
			return domain.ErrSlotOccupied
		}
		return domain.ErrSlotNotOccupied
	}
	t.m.slots[slotNumber] = to
	return nil
}

func (t *memTx) LockCar(ctx context.Context, plateNumber string) error {
	if !t.m.cars[plateNumber] {
		return domain.ErrCarNotFound
	}
	return nil
}

func (t *memTx) HasOpenRecord(ctx context.Context, plateNumber string) (bool, error) {
	for _, r := range t.m.records {
		if r.PlateNumber == plateNumber && r.Open() {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) InsertRecord(ctx context.Context, record domain.ParkingRecord) (int64, error) {
	if err := t.fail("InsertRecord"); err != nil {
		return 0, err
	}
	// DATETIME keeps whole seconds and rounds the fraction
	record.EntryTime = record.EntryTime.Round(time.Second)
	record.ID = t.id()
	t.m.records[record.ID] = record
	return record.ID, nil
}

func (t *memTx) LockRecord(ctx context.Context, recordID int64) (domain.ParkingRecord, error) {
	r, ok := t.m.records[recordID]
	if !ok {
		return domain.ParkingRecord{}, domain.ErrRecordNotFound
	}
	return r, nil
}

func (t *memTx) CloseRecord(ctx context.Context, recordID int64, exit time.Time, duration int, fee decimal.Decimal) error {
	if err := t.fail("CloseRecord"); err != nil {
		return err
	}
	r := t.m.records[recordID]
	exit = exit.Round(time.Second)
	r.ExitTime = &exit
	r.Duration = &duration
	r.Fee = &fee
	t.m.records[recordID] = r
	return nil
}

func (t *memTx) InsertParkingPayment(ctx context.Context, payment domain.ParkingPayment) (int64, error) {
	payment.ID = t.id()
	t.m.payments[payment.ID] = payment
	return payment.ID, nil
}

func (t *memTx) InsertPart(ctx context.Context, part domain.SparePart) (int64, error) {
	if err := t.fail("InsertPart"); err != nil {
		return 0, err
	}
	part.ID = t.id()
	part.Quantity = 0
	part.TotalPrice = decimal.Zero
	t.m.parts[part.ID] = part
	return part.ID, nil
}

func (t *memTx) LockPart(ctx context.Context, partID int64) (domain.SparePart, error) {
	p, ok := t.m.parts[partID]
	if !ok {
		return domain.SparePart{}, domain.ErrPartNotFound
	}
	return p, nil
}

func (t *memTx) ApplyPartDelta(ctx context.Context, partID int64, delta int) error {
	if err := t.fail("ApplyPartDelta"); err != nil {
		return err
	}
	p, ok := t.m.parts[partID]
	if !ok {
		return domain.ErrPartNotFound
	}
	if p.Quantity+delta < 0 {
		return domain.ErrInsufficientQuantity
	}
	p.Quantity += delta
	p.TotalPrice = p.Valuation(p.Quantity)
	t.m.parts[partID] = p
	return nil
}

func (t *memTx) InsertMovement(ctx context.Context, movement domain.StockMovement) (int64, error) {
	if err := t.fail("InsertMovement"); err != nil {
		return 0, err
	}
	movement.ID = t.id()
	t.m.movements[movement.ID] = movement
	return movement.ID, nil
}

func (t *memTx) LockMovement(ctx context.Context, movementID int64) (domain.StockMovement, error) {
	mv, ok := t.m.movements[movementID]
	if !ok {
		return domain.StockMovement{}, domain.ErrMovementNotFound
	}
	return mv, nil
}

func (t *memTx) UpdateMovement(ctx context.Context, movement domain.StockMovement) error {
	if err := t.fail("UpdateMovement"); err != nil {
		return err
	}
	t.m.movements[movement.ID] = movement
	return nil
}

func (t *memTx) DeleteMovement(ctx context.Context, movementID int64) error {
	if err := t.fail("DeleteMovement"); err != nil {
		return err
	}
	delete(t.m.movements, movementID)
	return nil
}

// fakeClock hands out a fixed time until advanced.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
