package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elektra-pos/elektra-pos/internal/app"
	"github.com/elektra-pos/elektra-pos/internal/customers"
	"github.com/elektra-pos/elektra-pos/internal/dashboard"
	"github.com/elektra-pos/elektra-pos/internal/employees"
	"github.com/elektra-pos/elektra-pos/internal/observability"
	"github.com/elektra-pos/elektra-pos/internal/platform/cache"
	"github.com/elektra-pos/elektra-pos/internal/platform/db"
	"github.com/elektra-pos/elektra-pos/internal/pos"
	"github.com/elektra-pos/elektra-pos/internal/products"
	"github.com/elektra-pos/elektra-pos/internal/serviceorders"
	"github.com/elektra-pos/elektra-pos/internal/shared"
	"github.com/elektra-pos/elektra-pos/internal/transactions"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(pool)

	productsRepo := products.NewRepository(pool)
	productsService := products.NewService(productsRepo)
	productsHandler := products.NewHandler(logger, productsService)

	customersRepo := customers.NewRepository(pool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService)

	employeesRepo := employees.NewRepository(pool)
	employeesService := employees.NewService(employeesRepo)
	employeesHandler := employees.NewHandler(logger, employeesService)

	draftStore := pos.NewDraftStore(redisClient, cfg.DraftTTL)
	posRepo := pos.NewRepository(pool)
	posService := pos.NewService(draftStore, posRepo, productsService, customersService, auditLogger)
	posHandler := pos.NewHandler(logger, posService)

	transactionsRepo := transactions.NewRepository(pool)
	transactionsService := transactions.NewService(transactionsRepo, auditLogger)
	transactionsHandler := transactions.NewHandler(logger, transactionsService)

	ordersRepo := serviceorders.NewRepository(pool)
	ordersService := serviceorders.NewService(ordersRepo, productsService, employeesService, auditLogger)
	ordersHandler := serviceorders.NewHandler(logger, ordersService)

	dashboardService := dashboard.NewService(redisClient, cfg.DashboardCacheTTL, transactionsRepo, ordersRepo, productsRepo)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		POSHandler:           posHandler,
		TransactionsHandler:  transactionsHandler,
		ServiceOrdersHandler: ordersHandler,
		EmployeesHandler:     employeesHandler,
		CustomersHandler:     customersHandler,
		ProductsHandler:      productsHandler,
		DashboardHandler:     dashboardHandler,
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
