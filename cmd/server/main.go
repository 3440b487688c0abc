package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	accountingapp "github.com/shopos/backend/internal/application/accounting"
	catalogapp "github.com/shopos/backend/internal/application/catalog"
	inventoryapp "github.com/shopos/backend/internal/application/inventory"
	reportapp "github.com/shopos/backend/internal/application/report"
	tradeapp "github.com/shopos/backend/internal/application/trade"
	"github.com/shopos/backend/internal/infrastructure/config"
	"github.com/shopos/backend/internal/infrastructure/logger"
	"github.com/shopos/backend/internal/infrastructure/persistence"
	"github.com/shopos/backend/internal/interfaces/http/handler"
	"github.com/shopos/backend/internal/interfaces/http/middleware"
	"github.com/shopos/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	entryRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	voucherRepo := persistence.NewGormVoucherRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	returnRepo := persistence.NewGormReturnRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	allowNegative := cfg.Inventory.AllowNegativeStock
	productService := catalogapp.NewProductService(productRepo)
	stockService := inventoryapp.NewStockService(productRepo, txScope, allowNegative)
	ledgerService := accountingapp.NewLedgerService(accountRepo, entryRepo, voucherRepo, txScope)
	saleService := tradeapp.NewSaleService(saleRepo, txScope, allowNegative)
	purchaseService := tradeapp.NewPurchaseService(purchaseRepo, txScope, allowNegative)
	returnService := tradeapp.NewReturnService(returnRepo, saleRepo, txScope)
	reportService := reportapp.NewLedgerReportService(accountRepo, entryRepo, voucherRepo, saleRepo, purchaseRepo)

	// Initialize handlers
	productHandler := handler.NewProductHandler(productService)
	inventoryHandler := handler.NewInventoryHandler(stockService)
	accountingHandler := handler.NewAccountingHandler(ledgerService)
	saleHandler := handler.NewSaleHandler(saleService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	returnHandler := handler.NewSalesReturnHandler(returnService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler()

	// Setup gin engine
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	middleware.SetupValidator()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.Recovery(log))

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/barcode/:barcode", productHandler.GetByBarcode)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)
	r.Register(catalogRoutes)

	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.POST("/adjustments", inventoryHandler.Adjust)
	inventoryRoutes.GET("/low-stock", inventoryHandler.ListLowStock)
	inventoryRoutes.GET("/products/:id/stock", inventoryHandler.GetStock)
	r.Register(inventoryRoutes)

	accountingRoutes := router.NewDomainGroup("accounting", "/accounting")
	accountingRoutes.POST("/accounts", accountingHandler.CreateAccount)
	accountingRoutes.GET("/accounts", accountingHandler.ListAccounts)
	accountingRoutes.GET("/accounts/:id", accountingHandler.GetAccount)
	accountingRoutes.GET("/accounts/:id/entries", accountingHandler.ListEntries)
	accountingRoutes.GET("/accounts/:id/vouchers", accountingHandler.ListVouchers)
	accountingRoutes.POST("/entries", accountingHandler.PostEntry)
	accountingRoutes.POST("/vouchers", accountingHandler.CreateVoucher)
	accountingRoutes.GET("/vouchers/:id", accountingHandler.GetVoucher)
	r.Register(accountingRoutes)

	tradeRoutes := router.NewDomainGroup("trade", "/trade")
	tradeRoutes.POST("/sales", saleHandler.Create)
	tradeRoutes.GET("/sales", saleHandler.List)
	tradeRoutes.GET("/sales/invoice/:invoice_number", saleHandler.GetByInvoiceNumber)
	tradeRoutes.GET("/sales/:id", saleHandler.GetByID)
	tradeRoutes.GET("/sales/:id/returnable", returnHandler.GetRemainingReturnable)
	tradeRoutes.PUT("/sales/:id/items/:item_id", saleHandler.UpdateItem)
	tradeRoutes.DELETE("/sales/:id", saleHandler.Delete)

	tradeRoutes.POST("/purchases", purchaseHandler.Create)
	tradeRoutes.GET("/purchases", purchaseHandler.List)
	tradeRoutes.GET("/purchases/:id", purchaseHandler.GetByID)
	tradeRoutes.PUT("/purchases/:id/items/:item_id", purchaseHandler.UpdateItem)
	tradeRoutes.DELETE("/purchases/:id", purchaseHandler.Delete)

	tradeRoutes.POST("/returns", returnHandler.Create)
	tradeRoutes.GET("/returns", returnHandler.List)
	tradeRoutes.GET("/returns/stats/summary", returnHandler.GetStatusSummary)
	tradeRoutes.GET("/returns/number/:return_number", returnHandler.GetByReturnNumber)
	tradeRoutes.GET("/returns/:id", returnHandler.GetByID)
	tradeRoutes.PUT("/returns/:id/fees", returnHandler.UpdateFees)
	tradeRoutes.POST("/returns/:id/approve", returnHandler.Approve)
	tradeRoutes.POST("/returns/:id/reject", returnHandler.Reject)
	tradeRoutes.POST("/returns/:id/process", returnHandler.Process)
	tradeRoutes.DELETE("/returns/:id", returnHandler.Delete)
	r.Register(tradeRoutes)

	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/ledger/customers/:id", reportHandler.CustomerLedger)
	reportRoutes.GET("/ledger/suppliers/:id", reportHandler.SupplierLedger)
	reportRoutes.GET("/ledger/accounts/:id", reportHandler.AccountLedger)
	r.Register(reportRoutes)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
