package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/rl1809/garage-ledger/internal/adapter/export"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

func (h *HTTPHandler) DashboardStats(c *gin.Context) {
	stats, err := h.reports.DashboardStats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ParkingReport serves JSON by default and a workbook when format=xlsx.
func (h *HTTPHandler) ParkingReport(c *gin.Context) {
	r, err := dateRange(c, "startDate", "endDate")
	if err != nil {
		badRequest(c, err)
		return
	}
	report, err := h.reports.ParkingReport(c.Request.Context(), r)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if c.Query("format") == "xlsx" {
		h.attachment(c, "parking-report.xlsx", func(buf *bytes.Buffer) error {
			return export.ParkingReport(buf, report)
		})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *HTTPHandler) StockReport(c *gin.Context) {
	r, err := dateRange(c, "startDate", "endDate")
	if err != nil {
		badRequest(c, err)
		return
	}
	lines, err := h.reports.StockReport(c.Request.Context(), r)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if c.Query("format") == "xlsx" {
		h.attachment(c, "stock-report.xlsx", func(buf *bytes.Buffer) error {
			return export.StockReport(buf, lines)
		})
		return
	}
	listed(h, c, lines, nil)
}

func (h *HTTPHandler) PaymentReport(c *gin.Context) {
	r, err := dateRange(c, "start_date", "end_date")
	if err != nil {
		badRequest(c, err)
		return
	}
	lines, err := h.reports.PaymentReport(c.Request.Context(), r)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if c.Query("format") == "xlsx" {
		h.attachment(c, "payment-report.xlsx", func(buf *bytes.Buffer) error {
			return export.PaymentReport(buf, lines)
		})
		return
	}
	listed(h, c, lines, nil)
}

func (h *HTTPHandler) Payroll(c *gin.Context) {
	month := c.Param("month")
	if !monthPattern.MatchString(month) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return
	}
	lines, err := h.reports.Payroll(c.Request.Context(), month)
	listed(h, c, lines, err)
}

// attachment renders into a buffer first so a failed export still gets a
// proper error response.
func (h *HTTPHandler) attachment(c *gin.Context, filename string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.writeError(c, fmt.Errorf("export %s: %w", filename, err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
