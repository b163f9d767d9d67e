package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rl1809/garage-ledger/internal/adapter/events"
	"github.com/rl1809/garage-ledger/internal/adapter/handler"
	"github.com/rl1809/garage-ledger/internal/adapter/storage"
	"github.com/rl1809/garage-ledger/internal/config"
	"github.com/rl1809/garage-ledger/internal/core/service"
	"github.com/rl1809/garage-ledger/internal/infra/tracing"
	"github.com/rl1809/garage-ledger/internal/pkg/logger"
	"github.com/rl1809/garage-ledger/internal/port"
	"github.com/rl1809/garage-ledger/migrations"
)

const serviceName = "garage-ledger"

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer lg.Sync()

	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing
	shutdownTracing, err := tracing.Init(serviceName, cfg.OTLPEndpoint)
	if err != nil {
		lg.Warn("tracing disabled", "error", err)
	}

	// MySQL
	db, err := storage.OpenMySQL(ctx, cfg.MySQLDSN)
	if err != nil {
		lg.Fatal("failed to connect mysql", "error", err)
	}
	lg.Info("connected to mysql")

	if cfg.MigrateOnStart {
		if err := migrations.Run(ctx, db, "up"); err != nil {
			lg.Fatal("failed to migrate", "error", err)
		}
		lg.Info("schema migrated")
	}
	mysqlAdapter := storage.NewMySQLAdapter(db)

	// Idempotency keys live in Redis when configured, in memory otherwise
	var idempotency port.IdempotencyStore
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			lg.Fatal("failed to connect redis", "error", err)
		}
		idempotency = storage.NewRedisAdapter(rdb)
		lg.Info("connected to redis", "addr", cfg.RedisAddr)
	} else {
		idempotency = storage.NewMemoryIdempotency()
		lg.Info("using in-memory idempotency store")
	}

	// Events
	hub := events.NewHub(mysqlAdapter, lg)
	publishers := events.Fanout{hub}
	var kafkaPublisher *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		publishers = append(publishers, kafkaPublisher)
		lg.Info("publishing ledger events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	// Services
	parkingService := service.NewParkingService(mysqlAdapter, publishers, lg, cfg.HourlyRate, time.Now)
	stockService := service.NewStockService(mysqlAdapter, publishers, lg, time.Now)
	authService := service.NewAuthService(mysqlAdapter, lg, cfg.JWTSecret, cfg.TokenTTL, time.Now)

	// gRPC health
	grpcServer := grpc.NewServer()
	health := handler.NewHealthReporter(mysqlAdapter, lg)
	health.Register(grpcServer)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		lg.Fatal("failed to listen", "port", cfg.GRPCPort, "error", err)
	}

	// HTTP
	httpHandler := handler.NewHTTPHandler(handler.Deps{
		Auth:        authService,
		Parking:     parkingService,
		Stock:       stockService,
		Ledger:      mysqlAdapter,
		Catalog:     mysqlAdapter,
		Reports:     mysqlAdapter,
		Idempotency: idempotency,
		DB:          mysqlAdapter,
		Slots:       hub,
		Log:         lg,
	})
	router := handler.NewRouter(httpHandler, handler.RouterOptions{
		Metrics: cfg.MetricsEnabled,
		Tracing: shutdownTracing != nil,
	})
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		health.Run(gctx, 10*time.Second)
		return nil
	})
	g.Go(func() error {
		lg.Info("gRPC server listening", "port", cfg.GRPCPort)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		lg.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			lg.Warn("HTTP shutdown", "error", err)
		}
		hub.Close()
		lg.Info("HTTP server stopped")

		grpcServer.GracefulStop()
		lg.Info("gRPC server stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		lg.Error("server error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			lg.Warn("kafka writer close", "error", err)
		}
	}
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			lg.Warn("tracing shutdown", "error", err)
		}
	}
	if rdb != nil {
		rdb.Close()
	}
	db.Close()
	lg.Info("connections closed")
}
