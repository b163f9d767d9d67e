package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rl1809/garage-ledger/internal/core/domain"
)

type serviceRecordRequest struct {
	ServiceDate string `json:"service_date"`
	PlateNumber string `json:"plate_number" binding:"required"`
	ServiceCode string `json:"service_code" binding:"required"`
}

type paymentRequest struct {
	AmountPaid   decimal.Decimal `json:"amount_paid"`
	PaymentDate  string          `json:"payment_date"`
	RecordNumber int64           `json:"record_number" binding:"required"`
}

func (h *HTTPHandler) created(c *gin.Context, what string, id int64, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": what + " created", "id": id})
}

func (h *HTTPHandler) done(c *gin.Context, message string, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func listed[T any](h *HTTPHandler, c *gin.Context, items []T, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *HTTPHandler) ListDepartments(c *gin.Context) {
	items, err := h.catalog.ListDepartments(c.Request.Context())
	listed(h, c, items, err)
}

func (h *HTTPHandler) CreateDepartment(c *gin.Context) {
	var d domain.Department
	if err := c.ShouldBindJSON(&d); err != nil {
		badRequest(c, err)
		return
	}
	id, err := h.catalog.CreateDepartment(c.Request.Context(), d)
	h.created(c, "department", id, err)
}

func (h *HTTPHandler) UpdateDepartment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var d domain.Department
	if err := c.ShouldBindJSON(&d); err != nil {
		badRequest(c, err)
		return
	}
	d.ID = id
	h.done(c, "department updated", h.catalog.UpdateDepartment(c.Request.Context(), d))
}

func (h *HTTPHandler) DeleteDepartment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.done(c, "department deleted", h.catalog.DeleteDepartment(c.Request.Context(), id))
}

func (h *HTTPHandler) ListEmployees(c *gin.Context) {
	items, err := h.catalog.ListEmployees(c.Request.Context())
	listed(h, c, items, err)
}

func (h *HTTPHandler) CreateEmployee(c *gin.Context) {
	var e domain.Employee
	if err := c.ShouldBindJSON(&e); err != nil {
		badRequest(c, err)
		return
	}
	id, err := h.catalog.CreateEmployee(c.Request.Context(), e)
	h.created(c, "employee", id, err)
}

func (h *HTTPHandler) UpdateEmployee(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var e domain.Employee
	if err := c.ShouldBindJSON(&e); err != nil {
		badRequest(c, err)
		return
	}
	e.ID = id
	h.done(c, "employee updated", h.catalog.UpdateEmployee(c.Request.Context(), e))
}

func (h *HTTPHandler) DeleteEmployee(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.done(c, "employee deleted", h.catalog.DeleteEmployee(c.Request.Context(), id))
}

func (h *HTTPHandler) ListSalaries(c *gin.Context) {
	items, err := h.catalog.ListSalaries(c.Request.Context())
	listed(h, c, items, err)
}

func (h *HTTPHandler) CreateSalary(c *gin.Context) {
	var s domain.Salary
	if err := c.ShouldBindJSON(&s); err != nil {
		badRequest(c, err)
		return
	}
	id, err := h.catalog.CreateSalary(c.Request.Context(), s)
	h.created(c, "salary", id, err)
}

func (h *HTTPHandler) UpdateSalary(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var s domain.Salary
	if err := c.ShouldBindJSON(&s); err != nil {
		badRequest(c, err)
		return
	}
	s.ID = id
	h.done(c, "salary updated", h.catalog.UpdateSalary(c.Request.Context(), s))
}

func (h *HTTPHandler) DeleteSalary(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.done(c, "salary deleted", h.catalog.DeleteSalary(c.Request.Context(), id))
}

func (h *HTTPHandler) ListServices(c *gin.Context) {
	items, err := h.catalog.ListServices(c.Request.Context())
	listed(h, c, items, err)
}

func (h *HTTPHandler) CreateService(c *gin.Context) {
	var s domain.Service
	if err := c.ShouldBindJSON(&s); err != nil {
		badRequest(c, err)
		return
	}
	if strings.TrimSpace(s.Code) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "service_code is required"})
		return
	}
	if err := h.catalog.CreateService(c.Request.Context(), s); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "service created", "service_code": s.Code})
}

func (h *HTTPHandler) UpdateService(c *gin.Context) {
	var s domain.Service
	if err := c.ShouldBindJSON(&s); err != nil {
		badRequest(c, err)
		return
	}
	s.Code = c.Param("code")
	h.done(c, "service updated", h.catalog.UpdateService(c.Request.Context(), s))
}

func (h *HTTPHandler) DeleteService(c *gin.Context) {
	h.done(c, "service deleted", h.catalog.DeleteService(c.Request.Context(), c.Param("code")))
}

func (h *HTTPHandler) ListCars(c *gin.Context) {
	items, err := h.catalog.ListCars(c.Request.Context())
	listed(h, c, items, err)
}

func (h *HTTPHandler) CreateCar(c *gin.Context) {
	var car domain.Car
	if err := c.ShouldBindJSON(&car); err != nil {
		badRequest(c, err)
		return
	}
	if strings.TrimSpace(car.PlateNumber) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plate_number is required"})
		return
	}
	if err := h.catalog.CreateCar(c.Request.Context(), car); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "car created", "plate_number": car.PlateNumber})
}

func (h *HTTPHandler) UpdateCar(c *gin.Context) {
	var car domain.Car
	if err := c.ShouldBindJSON(&car); err != nil {
		badRequest(c, err)
		return
	}
	car.PlateNumber = c.Param("plate")
	h.done(c, "car updated", h.catalog.UpdateCar(c.Request.Context(), car))
}

func (h *HTTPHandler) DeleteCar(c *gin.Context) {
	h.done(c, "car deleted", h.catalog.DeleteCar(c.Request.Context(), c.Param("plate")))
}

func (h *HTTPHandler) ListServiceRecords(c *gin.Context) {
	items, err := h.catalog.ListServiceRecords(c.Request.Context())
	listed(h, c, items, err)
}

func (h *HTTPHandler) CreateServiceRecord(c *gin.Context) {
	var req serviceRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := parseDay(req.ServiceDate)
	if err != nil {
		badRequest(c, err)
		return
	}
	if date.IsZero() {
		date = time.Now()
	}

	id, err := h.catalog.CreateServiceRecord(c.Request.Context(), domain.ServiceRecord{
		ServiceDate: date,
		PlateNumber: req.PlateNumber,
		ServiceCode: req.ServiceCode,
	})
	h.created(c, "service record", id, err)
}

func (h *HTTPHandler) DeleteServiceRecord(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.done(c, "service record deleted", h.catalog.DeleteServiceRecord(c.Request.Context(), id))
}

func (h *HTTPHandler) ListPayments(c *gin.Context) {
	items, err := h.catalog.ListPayments(c.Request.Context())
	listed(h, c, items, err)
}

// CreatePayment attributes the payment to the authenticated user.
func (h *HTTPHandler) CreatePayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !req.AmountPaid.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_paid must be positive"})
		return
	}
	date, err := parseDay(req.PaymentDate)
	if err != nil {
		badRequest(c, err)
		return
	}
	if date.IsZero() {
		date = time.Now()
	}

	identity, _ := identityFrom(c)
	id, err := h.catalog.CreatePayment(c.Request.Context(), domain.Payment{
		AmountPaid:   req.AmountPaid,
		PaymentDate:  date,
		RecordNumber: req.RecordNumber,
		UserID:       identity.UserID,
	})
	h.created(c, "payment", id, err)
}
