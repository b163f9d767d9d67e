package handler

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/garage-ledger/internal/pkg/logger"
)

const LedgerService = "garage.Ledger"

// HealthReporter exposes the standard gRPC health service. The ledger is
// SERVING while its database answers pings.
type HealthReporter struct {
	server *health.Server
	db     Pinger
	log    *logger.Logger
}

func NewHealthReporter(db Pinger, log *logger.Logger) *HealthReporter {
	return &HealthReporter{
		server: health.NewServer(),
		db:     db,
		log:    log.With("component", "HealthReporter"),
	}
}

func (h *HealthReporter) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Check pings the database once and publishes the result.
func (h *HealthReporter) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("database ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(LedgerService, status)
	return status
}

// Run checks every interval until ctx is done, then marks everything as not
// serving.
func (h *HealthReporter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}
