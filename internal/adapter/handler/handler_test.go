package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rl1809/garage-ledger/internal/core/domain"
	"github.com/rl1809/garage-ledger/internal/pkg/logger"
	"github.com/rl1809/garage-ledger/internal/port"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct {
	mu    sync.Mutex
	roles []string
}

func (f *fakeAuth) Register(ctx context.Context, username, password, role string) (int64, error) {
	if username == "taken" {
		return 0, domain.ErrUsernameTaken
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles = append(f.roles, role)
	return int64(len(f.roles)), nil
}

func (*fakeAuth) Login(ctx context.Context, username, password string) (string, domain.Identity, error) {
	if username != "alice" || password != "pw" {
		return "", domain.Identity{}, domain.ErrInvalidCredentials
	}
	return "good", domain.Identity{UserID: 7, Username: "alice"}, nil
}

func (*fakeAuth) Authorize(token string) (domain.Identity, error) {
	switch token {
	case "":
		return domain.Identity{}, domain.ErrUnauthenticated
	case "good":
		return domain.Identity{UserID: 7, Username: "alice", Role: domain.RoleStaff}, nil
	default:
		return domain.Identity{}, fmt.Errorf("%w: malformed token", domain.ErrInvalidCredential)
	}
}

type fakeParking struct {
	mu       sync.Mutex
	err      error
	opened   []string
	checkout domain.Checkout
}

func (f *fakeParking) OpenOccupancy(ctx context.Context, slotNumber string, detail domain.OccupancyDetail) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.opened = append(f.opened, slotNumber+"/"+detail.PlateNumber)
	return int64(len(f.opened)), nil
}

func (f *fakeParking) CloseOccupancy(ctx context.Context, recordID int64) (domain.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Checkout{}, f.err
	}
	out := f.checkout
	out.RecordID = recordID
	return out, nil
}

func (f *fakeParking) RecordPayment(ctx context.Context, recordID int64, amount decimal.Decimal) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return 1, f.err
}

type revision struct {
	id    int64
	delta int
}

type fakeStock struct {
	mu        sync.Mutex
	err       error
	in        []int
	out       []int
	revisions []revision
	deleted   []int64
	created   []domain.SparePart
}

func (f *fakeStock) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeStock) CreatePart(ctx context.Context, part domain.SparePart) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.created = append(f.created, part)
	return int64(len(f.created)), nil
}

func (f *fakeStock) StockIn(ctx context.Context, partID int64, qty int, detail domain.StockDetail) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.in = append(f.in, qty)
	return int64(len(f.in)), nil
}

func (f *fakeStock) StockOut(ctx context.Context, partID int64, qty int, detail domain.StockDetail) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.out = append(f.out, qty)
	return int64(len(f.out)), nil
}

func (f *fakeStock) ReverseAdjustment(ctx context.Context, movementID int64, newDelta int, newUnitPrice decimal.Decimal, newDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revisions = append(f.revisions, revision{movementID, newDelta})
	return f.err
}

func (f *fakeStock) DeleteAdjustment(ctx context.Context, movementID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, movementID)
	return f.err
}

type fakeReader struct {
	port.LedgerReader
	slots     []domain.ParkingSlot
	movements []domain.StockMovement
	err       error
}

func (f *fakeReader) ListSlots(ctx context.Context) ([]domain.ParkingSlot, error) {
	return f.slots, f.err
}

func (f *fakeReader) ListMovements(ctx context.Context, direction domain.MovementDirection) ([]domain.StockMovement, error) {
	var out []domain.StockMovement
	for _, mv := range f.movements {
		if mv.Direction == direction {
			out = append(out, mv)
		}
	}
	return out, f.err
}

type fakeCatalog struct {
	port.CatalogRepository
	mu      sync.Mutex
	payment domain.Payment
}

func (f *fakeCatalog) CreatePayment(ctx context.Context, p domain.Payment) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payment = p
	return 11, nil
}

type fakeReports struct {
	port.ReportRepository
	mu     sync.Mutex
	report domain.ParkingReport
	month  string
}

func (f *fakeReports) ParkingReport(ctx context.Context, r domain.DateRange) (domain.ParkingReport, error) {
	return f.report, nil
}

func (f *fakeReports) Payroll(ctx context.Context, month string) ([]domain.PayrollLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.month = month
	return nil, nil
}

type fakeIdempotency struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (f *fakeIdempotency) SetIdempotency(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeIdempotency) ClearIdempotency(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.keys, key)
	return nil
}

type fakePinger struct {
	mu  sync.Mutex
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakePinger) set(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

type fixture struct {
	router  *gin.Engine
	auth    *fakeAuth
	parking *fakeParking
	stock   *fakeStock
	reader  *fakeReader
	catalog *fakeCatalog
	reports *fakeReports
	db      *fakePinger
}

func newFixture() *fixture {
	f := &fixture{
		auth:    &fakeAuth{},
		parking: &fakeParking{},
		stock:   &fakeStock{},
		reader:  &fakeReader{},
		catalog: &fakeCatalog{},
		reports: &fakeReports{},
		db:      &fakePinger{},
	}
	h := NewHTTPHandler(Deps{
		Auth:        f.auth,
		Parking:     f.parking,
		Stock:       f.stock,
		Ledger:      f.reader,
		Catalog:     f.catalog,
		Reports:     f.reports,
		Idempotency: &fakeIdempotency{keys: make(map[string]bool)},
		DB:          f.db,
		Log:         logger.Nop(),
	})
	f.router = NewRouter(h, RouterOptions{})
	return f
}

// do sends a request; headers are given as name, value pairs.
func (f *fixture) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) authed(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	return f.do(method, path, body, append([]string{"Authorization", "Bearer good"}, headers...)...)
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return body.Error
}

func TestHealthCheck(t *testing.T) {
	f := newFixture()

	if w := f.do(http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	f.db.set(errors.New("connection refused"))
	if w := f.do(http.MethodGet, "/health", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()

	if w := f.do(http.MethodPost, "/register", `{"username":"bob","password":"pw"}`); w.Code != http.StatusCreated {
		t.Errorf("register: expected 201, got %d", w.Code)
	}
	if w := f.do(http.MethodPost, "/register", `{"username":"taken","password":"pw"}`); w.Code != http.StatusConflict {
		t.Errorf("duplicate register: expected 409, got %d", w.Code)
	}
	if w := f.do(http.MethodPost, "/register", `{"username":"bob"}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing password: expected 400, got %d", w.Code)
	}

	w := f.do(http.MethodPost, "/login", `{"username":"alice","password":"pw"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", w.Code)
	}
	var resp struct {
		Token string          `json:"token"`
		User  domain.Identity `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token != "good" || resp.User.UserID != 7 {
		t.Errorf("unexpected login response %+v", resp)
	}

	if w := f.do(http.MethodPost, "/login", `{"username":"alice","password":"nope"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("bad password: expected 401, got %d", w.Code)
	}
}

func TestRegister_IgnoresRequestedRole(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/register", `{"username":"mallory","password":"pw","role":"admin"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if len(f.auth.roles) != 1 || f.auth.roles[0] != domain.RoleStaff {
		t.Errorf("expected a staff account, got roles %v", f.auth.roles)
	}
}

func TestRequireAuth(t *testing.T) {
	f := newFixture()
	body := `{"plate_number":"RAB123A","slot_number":"A1"}`

	if w := f.do(http.MethodPost, "/parking-records", body); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", w.Code)
	}
	if w := f.do(http.MethodPost, "/parking-records", body, "Authorization", "Bearer forged"); w.Code != http.StatusForbidden {
		t.Errorf("bad token: expected 403, got %d", w.Code)
	}
	if w := f.do(http.MethodPost, "/parking-records", body, "Authorization", "good"); w.Code != http.StatusCreated {
		t.Errorf("bare token: expected 201, got %d", w.Code)
	}
	if w := f.do(http.MethodGet, "/parking-slots", ""); w.Code != http.StatusOK {
		t.Errorf("public read: expected 200, got %d", w.Code)
	}
}

func TestOpenOccupancy(t *testing.T) {
	f := newFixture()

	w := f.authed(http.MethodPost, "/parking-records", `{"plate_number":"RAB123A","slot_number":"A1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(f.parking.opened) != 1 || f.parking.opened[0] != "A1/RAB123A" {
		t.Errorf("unexpected calls %v", f.parking.opened)
	}
}

func TestOpenOccupancy_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"slot occupied", domain.ErrSlotOccupied, http.StatusConflict},
		{"car already parked", domain.ErrCarAlreadyParked, http.StatusConflict},
		{"unknown car", domain.ErrCarNotFound, http.StatusNotFound},
		{"invalid", fmt.Errorf("%w: slot number is required", domain.ErrInvalidArgument), http.StatusBadRequest},
		{"storage", domain.StorageError("insert record", errors.New("deadlock")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.parking.err = tt.err

			w := f.authed(http.MethodPost, "/parking-records", `{"plate_number":"RAB123A","slot_number":"A1"}`)
			if w.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, w.Code)
			}
			if tt.status == http.StatusInternalServerError {
				if msg := errorBody(t, w); msg != "internal error" {
					t.Errorf("internal detail leaked: %q", msg)
				}
			}
		})
	}
}

func TestOpenOccupancy_BadBody(t *testing.T) {
	f := newFixture()

	if w := f.authed(http.MethodPost, "/parking-records", `{"slot_number":"A1"}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing plate: expected 400, got %d", w.Code)
	}
	if w := f.authed(http.MethodPost, "/parking-records", `not json`); w.Code != http.StatusBadRequest {
		t.Errorf("malformed: expected 400, got %d", w.Code)
	}
	if len(f.parking.opened) != 0 {
		t.Errorf("service called for a bad request")
	}
}

func TestCloseOccupancy(t *testing.T) {
	f := newFixture()
	f.parking.checkout = domain.Checkout{SlotNumber: "A1", Duration: 95, Fee: decimal.NewFromInt(1000)}

	if w := f.authed(http.MethodPut, "/parking-records/abc/exit", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad id: expected 400, got %d", w.Code)
	}

	w := f.authed(http.MethodPut, "/parking-records/3/exit", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var out domain.Checkout
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.RecordID != 3 || out.Duration != 95 || !out.Fee.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("unexpected checkout %+v", out)
	}

	f.parking.err = domain.ErrAlreadyClosed
	if w := f.authed(http.MethodPut, "/parking-records/3/exit", ""); w.Code != http.StatusConflict {
		t.Errorf("already closed: expected 409, got %d", w.Code)
	}
}

func TestIdempotency(t *testing.T) {
	f := newFixture()
	body := `{"part_id":1,"stock_in_quantity":5,"unit_price":2}`

	if w := f.authed(http.MethodPost, "/stock-in", body, idempotencyHeader, "k1"); w.Code != http.StatusCreated {
		t.Fatalf("first: expected 201, got %d", w.Code)
	}
	w := f.authed(http.MethodPost, "/stock-in", body, idempotencyHeader, "k1")
	if w.Code != http.StatusConflict || errorBody(t, w) != "duplicate request" {
		t.Errorf("replay: expected 409 duplicate request, got %d %s", w.Code, w.Body.String())
	}
	if len(f.stock.in) != 1 {
		t.Errorf("expected 1 stock in, got %d", len(f.stock.in))
	}

	// keys are scoped per route
	outBody := `{"part_id":1,"stock_out_quantity":1,"stock_out_unit_price":2}`
	if w := f.authed(http.MethodPost, "/stock-out", outBody, idempotencyHeader, "k1"); w.Code != http.StatusCreated {
		t.Errorf("other route: expected 201, got %d", w.Code)
	}

	// a failed request releases its key
	f.stock.setErr(domain.ErrInsufficientQuantity)
	if w := f.authed(http.MethodPost, "/stock-in", body, idempotencyHeader, "k2"); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("failure: expected 422, got %d", w.Code)
	}
	f.stock.setErr(nil)
	if w := f.authed(http.MethodPost, "/stock-in", body, idempotencyHeader, "k2"); w.Code != http.StatusCreated {
		t.Errorf("retry: expected 201, got %d", w.Code)
	}

	// no key, no deduplication
	for i := 0; i < 2; i++ {
		if w := f.authed(http.MethodPost, "/stock-in", body); w.Code != http.StatusCreated {
			t.Errorf("unkeyed %d: expected 201, got %d", i, w.Code)
		}
	}
}

func TestListMovements_Shape(t *testing.T) {
	f := newFixture()
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	f.reader.movements = []domain.StockMovement{
		{ID: 4, PartID: 1, PartName: "brake pad", Category: "brakes", Direction: domain.MovementIn, Quantity: 5,
			UnitPrice: decimal.NewFromInt(2), TotalPrice: decimal.NewFromInt(10), Date: day},
		{ID: 9, PartID: 1, PartName: "brake pad", Category: "brakes", Direction: domain.MovementOut, Quantity: -3,
			UnitPrice: decimal.NewFromInt(2), TotalPrice: decimal.NewFromInt(6), Date: day},
	}

	decode := func(path string) map[string]any {
		t.Helper()
		w := f.do(http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
		var rows []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if len(rows) != 1 {
			t.Fatalf("%s: expected one row, got %d", path, len(rows))
		}
		return rows[0]
	}

	out := decode("/stock-out")
	for _, key := range []string{"stock_out_id", "part_id", "part_name", "category",
		"stock_out_quantity", "stock_out_unit_price", "stock_out_total_price", "stock_out_date"} {
		if _, ok := out[key]; !ok {
			t.Errorf("stock out row is missing %q: %v", key, out)
		}
	}
	if out["stock_out_id"] != float64(9) || out["stock_out_quantity"] != float64(3) {
		t.Errorf("expected id 9 with quantity 3, got %v", out)
	}
	if out["stock_out_date"] != "2025-03-01" || out["category"] != "brakes" {
		t.Errorf("unexpected date or category: %v", out)
	}

	in := decode("/api/stock-in")
	for _, key := range []string{"stock_in_id", "part_name", "stock_in_quantity", "unit_price", "total_price", "stock_in_date"} {
		if _, ok := in[key]; !ok {
			t.Errorf("stock in row is missing %q: %v", key, in)
		}
	}
	if in["stock_in_id"] != float64(4) || in["stock_in_quantity"] != float64(5) {
		t.Errorf("expected id 4 with quantity 5, got %v", in)
	}
}

func TestCreatePart_OpeningStock(t *testing.T) {
	f := newFixture()

	w := f.authed(http.MethodPost, "/spare-parts", `{"name":"brake pad","category":"brakes","quantity":10,"unit_price":4}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(f.stock.created) != 1 || f.stock.created[0].Quantity != 10 {
		t.Errorf("expected the part to go through the stock ledger, got %+v", f.stock.created)
	}

	if w := f.authed(http.MethodPost, "/spare-parts", `{"name":"x","quantity":-1,"unit_price":4}`); w.Code != http.StatusBadRequest {
		t.Errorf("negative quantity: expected 400, got %d", w.Code)
	}
}

func TestStockOut_Insufficient(t *testing.T) {
	f := newFixture()
	f.stock.setErr(domain.ErrInsufficientQuantity)

	w := f.authed(http.MethodPost, "/stock-out", `{"part_id":1,"stock_out_quantity":50,"stock_out_unit_price":2}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
}

func TestStockIn_BadDate(t *testing.T) {
	f := newFixture()

	w := f.authed(http.MethodPost, "/stock-in", `{"part_id":1,"stock_in_quantity":5,"unit_price":2,"stock_in_date":"01/02/2025"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if len(f.stock.in) != 0 {
		t.Error("service called with an unparsable date")
	}
}

func TestReviseMovement_SignsDelta(t *testing.T) {
	f := newFixture()

	if w := f.authed(http.MethodPut, "/stock-out/9", `{"stock_out_quantity":3,"stock_out_unit_price":1}`); w.Code != http.StatusOK {
		t.Fatalf("stock out revise: expected 200, got %d", w.Code)
	}
	if w := f.authed(http.MethodPut, "/stock-in/4", `{"stock_in_quantity":4,"unit_price":1,"stock_in_date":"2025-03-01"}`); w.Code != http.StatusOK {
		t.Fatalf("stock in revise: expected 200, got %d", w.Code)
	}
	if w := f.authed(http.MethodPut, "/stock-in/4", `{"stock_in_quantity":-4}`); w.Code != http.StatusBadRequest {
		t.Errorf("negative quantity: expected 400, got %d", w.Code)
	}

	want := []revision{{9, -3}, {4, 4}}
	if len(f.stock.revisions) != len(want) {
		t.Fatalf("expected %v, got %v", want, f.stock.revisions)
	}
	for i := range want {
		if f.stock.revisions[i] != want[i] {
			t.Errorf("revision %d: expected %v, got %v", i, want[i], f.stock.revisions[i])
		}
	}
}

func TestDeleteMovement(t *testing.T) {
	f := newFixture()

	if w := f.authed(http.MethodDelete, "/stock-in/5", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	f.stock.setErr(domain.ErrMovementNotFound)
	if w := f.authed(http.MethodDelete, "/stock-out/6", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if len(f.stock.deleted) != 2 || f.stock.deleted[0] != 5 || f.stock.deleted[1] != 6 {
		t.Errorf("unexpected deletes %v", f.stock.deleted)
	}
}

func TestAPIPrefix(t *testing.T) {
	f := newFixture()

	for _, path := range []string{"/parking-slots", "/api/parking-slots"} {
		w := f.do(http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
		if strings.TrimSpace(w.Body.String()) != "[]" {
			t.Errorf("%s: expected empty list, got %s", path, w.Body.String())
		}
	}

	f.reader.slots = []domain.ParkingSlot{{Number: "A1", Status: domain.SlotAvailable}}
	w := f.do(http.MethodGet, "/api/parking-slots", "")
	var slots []domain.ParkingSlot
	if err := json.Unmarshal(w.Body.Bytes(), &slots); err != nil {
		t.Fatal(err)
	}
	if len(slots) != 1 || slots[0].Number != "A1" {
		t.Errorf("unexpected slots %+v", slots)
	}
}

func TestCreatePayment_AttributesUser(t *testing.T) {
	f := newFixture()

	w := f.authed(http.MethodPost, "/api/payments", `{"amount_paid":30000,"payment_date":"2025-03-01","record_number":2}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if f.catalog.payment.UserID != 7 || f.catalog.payment.RecordNumber != 2 {
		t.Errorf("unexpected payment %+v", f.catalog.payment)
	}

	if w := f.authed(http.MethodPost, "/api/payments", `{"amount_paid":0,"record_number":2}`); w.Code != http.StatusBadRequest {
		t.Errorf("zero amount: expected 400, got %d", w.Code)
	}
}

func TestParkingReport(t *testing.T) {
	f := newFixture()
	f.reports.report = domain.ParkingReport{
		DailyRevenue: []domain.DailyRevenue{{Date: "2025-03-01", TotalRevenue: decimal.NewFromInt(1500), TotalTransactions: 2}},
		SlotUsage:    []domain.SlotUsage{{SlotNumber: "A1", TotalUsage: 2}},
	}

	w := f.do(http.MethodGet, "/reports?startDate=2025-03-01&endDate=2025-03-31", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var report domain.ParkingReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if len(report.DailyRevenue) != 1 || len(report.SlotUsage) != 1 {
		t.Errorf("unexpected report %+v", report)
	}

	w = f.do(http.MethodGet, "/reports?startDate=2025-03-01&endDate=2025-03-31&format=xlsx", "")
	if w.Code != http.StatusOK {
		t.Fatalf("xlsx: expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/vnd.openxmlformats") {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "PK") {
		t.Error("xlsx body is not a zip archive")
	}

	if w := f.do(http.MethodGet, "/reports?startDate=2025-04-01&endDate=2025-03-01", ""); w.Code != http.StatusBadRequest {
		t.Errorf("inverted range: expected 400, got %d", w.Code)
	}
}

func TestPayroll_Month(t *testing.T) {
	f := newFixture()

	if w := f.do(http.MethodGet, "/payroll/2025-13", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad month: expected 400, got %d", w.Code)
	}
	if w := f.do(http.MethodGet, "/payroll/2025-03", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if f.reports.month != "2025-03" {
		t.Errorf("expected month 2025-03, got %q", f.reports.month)
	}
}
