package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docstore/internal/config"
	"docstore/internal/database"
	"docstore/internal/database/migration"
	handlers "docstore/internal/http/handler"
	"docstore/internal/http/middleware"
	"docstore/internal/notify"
	"docstore/internal/otel"
	"docstore/internal/repository/postgres"
	"docstore/internal/service"
	"docstore/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	// Canceled on SIGINT/SIGTERM: stops the sweeper and triggers the drain below
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Tracing first so DB spans are captured from the start
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// PostgreSQL connection (pooled via database/sql over pgx)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// S3-compatible object storage for scanned copies
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Push notifications; disabled unless URLs are configured
	var notifier notify.Notifier = notify.Noop{}
	if len(cfg.Notify.URLs) > 0 {
		notifier, err = notify.NewShoutrrr(cfg.Notify.URLs, 10*time.Second)
		if err != nil {
			log.Fatalf("failed to initialize notifier: %v", err)
		}
	}

	// Repositories
	docRepo := postgres.NewDocumentPostgres(db)
	importRepo := postgres.NewImportRequestPostgres(db)
	borrowRepo := postgres.NewBorrowRequestPostgres(db)
	historyRepo := postgres.NewBorrowHistoryPostgres(db)
	deptRepo := postgres.NewDepartmentPostgres(db)
	roomRepo := postgres.NewRoomPostgres(db)
	lockerRepo := postgres.NewLockerPostgres(db)
	folderRepo := postgres.NewFolderPostgres(db)

	// Services
	ledger := service.NewCapacityLedger(folderRepo, docRepo, lockerRepo, roomRepo)
	scheduler := service.NewOverlapScheduler(borrowRepo, nil)
	importSvc := service.NewImportRequestService(importRepo, docRepo, folderRepo, deptRepo, ledger, notifier, nil)
	borrowSvc := service.NewBorrowRequestService(borrowRepo, docRepo, scheduler, notifier, nil)
	docSvc := service.NewDocumentService(docRepo, historyRepo, folderRepo, ledger, objStore, nil)
	hierSvc := service.NewHierarchyService(deptRepo, roomRepo, lockerRepo, folderRepo, ledger, nil)

	// Metrics registry shared by the HTTP middleware and the sweeper
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}

	sweeper, err := service.NewExpirySweeper(importRepo, borrowRepo, cfg.Sweeper.Interval, cfg.Sweeper.Grace, reg, nil)
	if err != nil {
		log.Fatalf("failed to initialize sweeper: %v", err)
	}
	go sweeper.Run(ctx)

	// Metrics are served on their own listener, away from the public API.
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(":"+cfg.MetricsPort, metricsMux); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server: %v", err)
		}
	}()

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Global middleware: tracing, request id, JSON logs, request counts
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(nil))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, handlers.Handlers{
		DB:        db,
		Imports:   importSvc,
		Borrows:   borrowSvc,
		Documents: docSvc,
		Hierarchy: hierSvc,
	})

	// Drain in-flight requests when the signal context fires
	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
