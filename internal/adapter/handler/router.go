package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rl1809/garage-ledger/internal/infra/metrics"
	"github.com/rl1809/garage-ledger/internal/infra/requestid"
	"github.com/rl1809/garage-ledger/internal/infra/tracing"
)

type RouterOptions struct {
	Metrics bool
	Tracing bool
}

// NewRouter wires every endpoint. Resource routes are served both at the root
// and under /api.
func NewRouter(h *HTTPHandler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestid.Middleware())
	if opts.Tracing {
		r.Use(tracing.Middleware())
	}
	if opts.Metrics {
		r.Use(metrics.Middleware)
		r.GET("/metrics", metrics.Handler())
	}
	r.Use(RequestLogger(h.log), CORS())

	r.GET("/health", h.HealthCheck)
	if h.slots != nil {
		r.GET("/ws/slots", gin.WrapH(h.slots))
	}
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)

	h.routes(r.Group(""))
	h.routes(r.Group("/api"))
	return r
}

func (h *HTTPHandler) routes(g *gin.RouterGroup) {
	g.GET("/parking-slots", h.ListSlots)
	g.GET("/parking-slots/occupancy", h.Occupancy)
	g.GET("/parking-records", h.ListRecords)
	g.GET("/parking-records/active", h.ListActiveRecords)
	g.GET("/parking-payments", h.ListParkingPayments)
	g.GET("/spare-parts", h.ListParts)
	g.GET("/stock-in", h.ListStockIn)
	g.GET("/stock-out", h.ListStockOut)
	g.GET("/departments", h.ListDepartments)
	g.GET("/employees", h.ListEmployees)
	g.GET("/salaries", h.ListSalaries)
	g.GET("/services", h.ListServices)
	g.GET("/cars", h.ListCars)
	g.GET("/service-records", h.ListServiceRecords)
	g.GET("/payments", h.ListPayments)
	g.GET("/dashboard/stats", h.DashboardStats)
	g.GET("/reports", h.ParkingReport)
	g.GET("/reports/stock", h.StockReport)
	g.GET("/payments/report", h.PaymentReport)
	g.GET("/payroll/:month", h.Payroll)

	auth := g.Group("", h.RequireAuth())

	ledger := auth.Group("", h.Idempotency())
	ledger.POST("/parking-records", h.OpenOccupancy)
	ledger.POST("/parking-payments", h.RecordParkingPayment)
	ledger.POST("/stock-in", h.StockIn)
	ledger.POST("/stock-out", h.StockOut)
	ledger.POST("/payments", h.CreatePayment)

	auth.PUT("/parking-records/:id/exit", h.CloseOccupancy)
	auth.PUT("/stock-in/:id", h.UpdateStockIn)
	auth.PUT("/stock-out/:id", h.UpdateStockOut)
	auth.DELETE("/stock-in/:id", h.DeleteMovement)
	auth.DELETE("/stock-out/:id", h.DeleteMovement)

	auth.POST("/parking-slots", h.CreateSlot)
	auth.DELETE("/parking-slots/:number", h.DeleteSlot)
	auth.POST("/spare-parts", h.CreatePart)
	auth.PUT("/spare-parts/:id", h.UpdatePart)
	auth.DELETE("/spare-parts/:id", h.DeletePart)
	auth.POST("/departments", h.CreateDepartment)
	auth.PUT("/departments/:id", h.UpdateDepartment)
	auth.DELETE("/departments/:id", h.DeleteDepartment)
	auth.POST("/employees", h.CreateEmployee)
	auth.PUT("/employees/:id", h.UpdateEmployee)
	auth.DELETE("/employees/:id", h.DeleteEmployee)
	auth.POST("/salaries", h.CreateSalary)
	auth.PUT("/salaries/:id", h.UpdateSalary)
	auth.DELETE("/salaries/:id", h.DeleteSalary)
	auth.POST("/services", h.CreateService)
	auth.PUT("/services/:code", h.UpdateService)
	auth.DELETE("/services/:code", h.DeleteService)
	auth.POST("/cars", h.CreateCar)
	auth.PUT("/cars/:plate", h.UpdateCar)
	auth.DELETE("/cars/:plate", h.DeleteCar)
	auth.POST("/service-records", h.CreateServiceRecord)
	auth.DELETE("/service-records/:id", h.DeleteServiceRecord)
}
