package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rl1809/garage-ledger/internal/core/domain"
	"github.com/rl1809/garage-ledger/internal/infra/metrics"
)

type stockInBody struct {
	Quantity  int             `json:"stock_in_quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Date      string          `json:"stock_in_date"`
}

type stockInRequest struct {
	PartID int64 `json:"part_id" binding:"required"`
	stockInBody
}

type stockOutBody struct {
	Quantity  int             `json:"stock_out_quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"stock_out_unit_price"`
	Date      string          `json:"stock_out_date"`
}

type stockOutRequest struct {
	PartID int64 `json:"part_id" binding:"required"`
	stockOutBody
}

type partRequest struct {
	Name      string          `json:"name" binding:"required"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (h *HTTPHandler) ListParts(c *gin.Context) {
	parts, err := h.catalog.ListParts(c.Request.Context())
	listed(h, c, parts, err)
}

func (h *HTTPHandler) CreatePart(c *gin.Context) {
	var req partRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Quantity < 0 || req.UnitPrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity and unit_price must not be negative"})
		return
	}

	part := domain.SparePart{
		Name:      req.Name,
		Category:  req.Category,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	}
	id, err := h.stock.CreatePart(c.Request.Context(), part)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "spare part created", "part_id": id})
}

// UpdatePart changes descriptive fields and price. Quantity only moves
// through the stock endpoints.
func (h *HTTPHandler) UpdatePart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req partRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.UnitPrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_price must not be negative"})
		return
	}

	if err := h.catalog.UpdatePart(c.Request.Context(), id, req.Name, req.Category, req.UnitPrice); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "spare part updated"})
}

func (h *HTTPHandler) DeletePart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeletePart(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "spare part deleted"})
}

type stockInView struct {
	ID         int64           `json:"stock_in_id"`
	PartID     int64           `json:"part_id"`
	PartName   string          `json:"part_name"`
	Category   string          `json:"category"`
	Quantity   int             `json:"stock_in_quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Date       string          `json:"stock_in_date"`
}

type stockOutView struct {
	ID         int64           `json:"stock_out_id"`
	PartID     int64           `json:"part_id"`
	PartName   string          `json:"part_name"`
	Category   string          `json:"category"`
	Quantity   int             `json:"stock_out_quantity"`
	UnitPrice  decimal.Decimal `json:"stock_out_unit_price"`
	TotalPrice decimal.Decimal `json:"stock_out_total_price"`
	Date       string          `json:"stock_out_date"`
}

func (h *HTTPHandler) ListStockIn(c *gin.Context) {
	movements, err := h.ledger.ListMovements(c.Request.Context(), domain.MovementIn)
	views := make([]stockInView, 0, len(movements))
	for _, mv := range movements {
		views = append(views, stockInView{
			ID:         mv.ID,
			PartID:     mv.PartID,
			PartName:   mv.PartName,
			Category:   mv.Category,
			Quantity:   mv.Quantity,
			UnitPrice:  mv.UnitPrice,
			TotalPrice: mv.TotalPrice,
			Date:       mv.Date.Format(dayLayout),
		})
	}
	listed(h, c, views, err)
}

// ListStockOut reports withdrawals with positive quantities.
func (h *HTTPHandler) ListStockOut(c *gin.Context) {
	movements, err := h.ledger.ListMovements(c.Request.Context(), domain.MovementOut)
	views := make([]stockOutView, 0, len(movements))
	for _, mv := range movements {
		views = append(views, stockOutView{
			ID:         mv.ID,
			PartID:     mv.PartID,
			PartName:   mv.PartName,
			Category:   mv.Category,
			Quantity:   -mv.Quantity,
			UnitPrice:  mv.UnitPrice,
			TotalPrice: mv.TotalPrice,
			Date:       mv.Date.Format(dayLayout),
		})
	}
	listed(h, c, views, err)
}

func (h *HTTPHandler) StockIn(c *gin.Context) {
	var req stockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := parseDay(req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.stock.StockIn(c.Request.Context(), req.PartID, req.Quantity, domain.StockDetail{UnitPrice: req.UnitPrice, Date: date})
	metrics.ObserveMutation("stock_in", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "stock in recorded", "id": id})
}

func (h *HTTPHandler) StockOut(c *gin.Context) {
	var req stockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := parseDay(req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.stock.StockOut(c.Request.Context(), req.PartID, req.Quantity, domain.StockDetail{UnitPrice: req.UnitPrice, Date: date})
	metrics.ObserveMutation("stock_out", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "stock out recorded", "id": id})
}

func (h *HTTPHandler) UpdateStockIn(c *gin.Context) {
	var req stockInBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stock_in_quantity must be positive"})
		return
	}
	h.reviseMovement(c, req.Quantity, req.UnitPrice, req.Date)
}

func (h *HTTPHandler) UpdateStockOut(c *gin.Context) {
	var req stockOutBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stock_out_quantity must be positive"})
		return
	}
	h.reviseMovement(c, -req.Quantity, req.UnitPrice, req.Date)
}

func (h *HTTPHandler) reviseMovement(c *gin.Context, delta int, unitPrice decimal.Decimal, rawDate string) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	date, err := parseDay(rawDate)
	if err != nil {
		badRequest(c, err)
		return
	}

	err = h.stock.ReverseAdjustment(c.Request.Context(), id, delta, unitPrice, date)
	metrics.ObserveMutation("revise_stock", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "stock movement updated"})
}

func (h *HTTPHandler) DeleteMovement(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	err := h.stock.DeleteAdjustment(c.Request.Context(), id)
	metrics.ObserveMutation("delete_stock", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "stock movement deleted"})
}
