package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rl1809/garage-ledger/internal/core/domain"
	"github.com/rl1809/garage-ledger/internal/infra/metrics"
)

type openOccupancyRequest struct {
	PlateNumber string `json:"plate_number" binding:"required"`
	SlotNumber  string `json:"slot_number" binding:"required"`
}

type parkingPaymentRequest struct {
	RecordID   int64           `json:"record_id" binding:"required"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

func (h *HTTPHandler) ListSlots(c *gin.Context) {
	slots, err := h.ledger.ListSlots(c.Request.Context())
	listed(h, c, slots, err)
}

func (h *HTTPHandler) CreateSlot(c *gin.Context) {
	var req struct {
		SlotNumber string `json:"slot_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.catalog.CreateSlot(c.Request.Context(), req.SlotNumber); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "parking slot created", "slot_number": req.SlotNumber})
}

func (h *HTTPHandler) DeleteSlot(c *gin.Context) {
	if err := h.catalog.DeleteSlot(c.Request.Context(), c.Param("number")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "parking slot deleted"})
}

func (h *HTTPHandler) ListRecords(c *gin.Context) {
	h.listRecords(c, false)
}

func (h *HTTPHandler) ListActiveRecords(c *gin.Context) {
	h.listRecords(c, true)
}

func (h *HTTPHandler) listRecords(c *gin.Context, activeOnly bool) {
	records, err := h.ledger.ListRecords(c.Request.Context(), activeOnly)
	listed(h, c, records, err)
}

func (h *HTTPHandler) OpenOccupancy(c *gin.Context) {
	var req openOccupancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.parking.OpenOccupancy(c.Request.Context(), req.SlotNumber, domain.OccupancyDetail{PlateNumber: req.PlateNumber})
	metrics.ObserveMutation("open_occupancy", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "car entry recorded", "record_id": id})
}

func (h *HTTPHandler) CloseOccupancy(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	checkout, err := h.parking.CloseOccupancy(c.Request.Context(), id)
	metrics.ObserveMutation("close_occupancy", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkout)
}

func (h *HTTPHandler) ListParkingPayments(c *gin.Context) {
	payments, err := h.ledger.ListParkingPayments(c.Request.Context())
	listed(h, c, payments, err)
}

func (h *HTTPHandler) RecordParkingPayment(c *gin.Context) {
	var req parkingPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.parking.RecordPayment(c.Request.Context(), req.RecordID, req.AmountPaid)
	metrics.ObserveMutation("record_payment", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "payment recorded", "payment_id": id})
}

func (h *HTTPHandler) Occupancy(c *gin.Context) {
	occ, err := h.ledger.Occupancy(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, occ)
}
