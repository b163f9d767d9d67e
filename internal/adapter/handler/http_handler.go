package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rl1809/garage-ledger/internal/core/domain"
	"github.com/rl1809/garage-ledger/internal/pkg/logger"
	"github.com/rl1809/garage-ledger/internal/port"
)

type Authenticator interface {
	Register(ctx context.Context, username, password, role string) (int64, error)
	Login(ctx context.Context, username, password string) (string, domain.Identity, error)
	Authorize(token string) (domain.Identity, error)
}

type ParkingLedger interface {
	OpenOccupancy(ctx context.Context, slotNumber string, detail domain.OccupancyDetail) (int64, error)
	CloseOccupancy(ctx context.Context, recordID int64) (domain.Checkout, error)
	RecordPayment(ctx context.Context, recordID int64, amount decimal.Decimal) (int64, error)
}

type StockLedger interface {
	CreatePart(ctx context.Context, part domain.SparePart) (int64, error)
	StockIn(ctx context.Context, partID int64, qty int, detail domain.StockDetail) (int64, error)
	StockOut(ctx context.Context, partID int64, qty int, detail domain.StockDetail) (int64, error)
	ReverseAdjustment(ctx context.Context, movementID int64, newDelta int, newUnitPrice decimal.Decimal, newDate time.Time) error
	DeleteAdjustment(ctx context.Context, movementID int64) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Auth        Authenticator
	Parking     ParkingLedger
	Stock       StockLedger
	Ledger      port.LedgerReader
	Catalog     port.CatalogRepository
	Reports     port.ReportRepository
	Idempotency port.IdempotencyStore
	DB          Pinger
	Slots       http.Handler
	Log         *logger.Logger
}

type HTTPHandler struct {
	auth        Authenticator
	parking     ParkingLedger
	stock       StockLedger
	ledger      port.LedgerReader
	catalog     port.CatalogRepository
	reports     port.ReportRepository
	idempotency port.IdempotencyStore
	db          Pinger
	slots       http.Handler
	log         *logger.Logger
}

func NewHTTPHandler(d Deps) *HTTPHandler {
	return &HTTPHandler{
		auth:        d.Auth,
		parking:     d.Parking,
		stock:       d.Stock,
		ledger:      d.Ledger,
		catalog:     d.Catalog,
		reports:     d.Reports,
		idempotency: d.Idempotency,
		db:          d.DB,
		slots:       d.Slots,
		log:         d.Log.With("component", "HTTPHandler"),
	}
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidCredential):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrPreconditionFailed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientQuantity):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err onto a status code. Internal failures are logged and
// reported without detail.
func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		message = "internal error"
	}
	c.JSON(status, gin.H{"error": message})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

const dayLayout = "2006-01-02"

// parseDay accepts a plain date or an RFC 3339 timestamp. Empty input yields
// the zero time.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dayLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.New("dates must be YYYY-MM-DD")
	}
	return t, nil
}

// dateRange reads an inclusive range from the query. A missing end defaults to
// today and a missing start to 30 days before the end.
func dateRange(c *gin.Context, fromKey, toKey string) (domain.DateRange, error) {
	from, err := parseDay(c.Query(fromKey))
	if err != nil {
		return domain.DateRange{}, err
	}
	to, err := parseDay(c.Query(toKey))
	if err != nil {
		return domain.DateRange{}, err
	}
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if from.After(to) {
		return domain.DateRange{}, errors.New(fromKey + " must not be after " + toKey)
	}
	return domain.DateRange{From: from, To: to}, nil
}
