package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/printshop-api/internal/config"
	domainRepo "github.com/sangkips/printshop-api/internal/domain/repository"
	"github.com/sangkips/printshop-api/internal/presentation/http/handler"
	"github.com/sangkips/printshop-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	PrintJob     *handler.PrintJobHandler
	Class        *handler.ClassHandler
	Teacher      *handler.TeacherHandler
	DocumentType *handler.DocumentTypeHandler
	Settings     *handler.SettingsHandler
	Backup       *handler.BackupHandler
	Report       *handler.ReportHandler
	Printer      *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
			"store":   deps.Cfg.Store.Driver,
		})
	})

	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}

	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	registerPrintJobRoutes(v1, h, idempotent)
	registerClassRoutes(v1, h)
	registerReferenceRoutes(v1, h)

	v1.GET("/settings", h.Settings.GetSettings)
	v1.PUT("/settings", h.Settings.UpdateSettings)

	v1.GET("/backup", h.Backup.Export)
	v1.POST("/backup/import", h.Backup.Import)

	registerReportRoutes(v1, h)
	registerPrinterRoutes(v1, h)

	return router
}

func registerPrintJobRoutes(v1 *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	jobs := v1.Group("/print-jobs")
	{
		jobs.GET("", h.PrintJob.List)
		// Job creation replays the first response for a repeated Idempotency-Key
		jobs.POST("", idempotent, h.PrintJob.Create)
		jobs.GET("/types", h.PrintJob.PrintTypes)
		jobs.POST("/duplicate-check", h.PrintJob.CheckDuplicate)
		jobs.POST("/quote", h.PrintJob.Quote)
		jobs.GET("/:id", h.PrintJob.Get)
		jobs.PUT("/:id", idempotent, h.PrintJob.Update)
		jobs.PATCH("/:id/paid", h.PrintJob.SetPaid)
		jobs.DELETE("/:id", h.PrintJob.Delete)
		jobs.GET("/:id/receipt", h.Printer.GetReceipt)
		jobs.POST("/:id/receipt/print", h.Printer.PrintReceipt)
	}
}

func registerClassRoutes(v1 *gin.RouterGroup, h *Handlers) {
	classes := v1.Group("/classes")
	{
		classes.GET("", h.Class.List)
		classes.POST("", h.Class.Create)
		classes.GET("/unpaid-alerts", h.Class.UnpaidAlerts)
		classes.GET("/:id", h.Class.Get)
		classes.PUT("/:id", h.Class.Update)
		classes.DELETE("/:id", h.Class.Delete)
		classes.POST("/:id/settle", h.Class.Settle)
	}
}

func registerReferenceRoutes(v1 *gin.RouterGroup, h *Handlers) {
	teachers := v1.Group("/teachers")
	{
		teachers.GET("", h.Teacher.List)
		teachers.POST("", h.Teacher.Create)
		teachers.PUT("/:id", h.Teacher.Update)
		teachers.DELETE("/:id", h.Teacher.Delete)
	}

	docTypes := v1.Group("/document-types")
	{
		docTypes.GET("", h.DocumentType.List)
		docTypes.POST("", h.DocumentType.Create)
		docTypes.PUT("/:id", h.DocumentType.Update)
		docTypes.DELETE("/:id", h.DocumentType.Delete)
	}
}

func registerReportRoutes(v1 *gin.RouterGroup, h *Handlers) {
	reports := v1.Group("/reports")
	{
		reports.GET("/summary", h.Report.Summary)
		reports.GET("/balance-audit", h.Report.BalanceAudit)
		reports.GET("/export.csv", h.Report.ExportCSV)
		reports.GET("/export.xlsx", h.Report.ExportXLSX)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	printerGroup := v1.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
	}
}
