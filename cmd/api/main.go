package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/printshop-api/internal/application/service"
	"github.com/sangkips/printshop-api/internal/config"
	domainRepo "github.com/sangkips/printshop-api/internal/domain/repository"
	"github.com/sangkips/printshop-api/internal/infrastructure/database"
	"github.com/sangkips/printshop-api/internal/infrastructure/repository"
	"github.com/sangkips/printshop-api/internal/presentation/http/handler"
	"github.com/sangkips/printshop-api/internal/presentation/http/middleware"
	"github.com/sangkips/printshop-api/internal/presentation/http/routes"
	"github.com/sangkips/printshop-api/pkg/printer"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open the key-value store every collection lives in
	kv, err := openKeyValueStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Store.Driver, err)
	}

	ledger := repository.NewLedgerStore(kv)
	idempotencyRepo := repository.NewIdempotencyRepository(kv)
	loc := cfg.App.Location()

	// Initialize services
	printJobService := service.NewPrintJobService(ledger, loc, cfg.Ledger.DuplicateWindow)
	classService := service.NewClassService(ledger)
	teacherService := service.NewTeacherService(ledger)
	docTypeService := service.NewDocumentTypeService(ledger)
	settingsService := service.NewSettingsService(ledger)
	backupService := service.NewBackupService(ledger)
	reportService := service.NewReportService(ledger, loc)
	exportService := service.NewExportService(printJobService, ledger, loc)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, ledger, cfg.Printer.Type, cfg.Printer.Width, loc)

	// Initialize handlers
	handlers := &routes.Handlers{
		PrintJob:     handler.NewPrintJobHandler(printJobService, settingsService, loc),
		Class:        handler.NewClassHandler(classService, printJobService),
		Teacher:      handler.NewTeacherHandler(teacherService),
		DocumentType: handler.NewDocumentTypeHandler(docTypeService),
		Settings:     handler.NewSettingsHandler(settingsService),
		Backup:       handler.NewBackupHandler(backupService),
		Report:       handler.NewReportHandler(reportService, exportService, loc),
		Printer:      handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewClientRateLimiter(
		middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s, store: %s, timezone: %s", cfg.App.Env, cfg.Store.Driver, loc)

	if err := router.Run(":" + port); err != nil {
		log.Printf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

func openKeyValueStore(cfg *config.Config) (domainRepo.KeyValueStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Println("Warning: using in-memory store, data is lost on restart")
		return repository.NewMemoryKeyValueStore(), nil

	case config.StoreDriverDynamoDB:
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		client, err := database.NewDynamoDBClient(ctx, &cfg.DynamoDB)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureDynamoTable(ctx, client, cfg.DynamoDB.Table); err != nil {
			return nil, err
		}
		return repository.NewDynamoKeyValueStore(client, cfg.DynamoDB.Table), nil

	default:
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
		return repository.NewGormKeyValueStore(db), nil
	}
}
