package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/elektra-pos/elektra-pos/internal/app"
	"github.com/elektra-pos/elektra-pos/internal/employees"
	"github.com/elektra-pos/elektra-pos/internal/platform/db"
	"github.com/elektra-pos/elektra-pos/internal/products"
	"github.com/elektra-pos/elektra-pos/internal/serviceorders"
	"github.com/elektra-pos/elektra-pos/internal/shared"
	"github.com/elektra-pos/elektra-pos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	auditLogger := shared.NewAuditLogger(pool)

	productsRepo := products.NewRepository(pool)
	productsService := products.NewService(productsRepo)

	employeesRepo := employees.NewRepository(pool)
	employeesService := employees.NewService(employeesRepo)

	ordersRepo := serviceorders.NewRepository(pool)
	ordersService := serviceorders.NewService(ordersRepo, productsService, employeesService, auditLogger)

	slaJob := jobs.NewSLAScanJob(ordersService, logger, nil)
	reconcileJob := jobs.NewWorkloadReconcileJob(ordersRepo, employeesRepo, logger, nil)

	slaTask, err := jobs.NewSLAScanTask(jobs.SLAScanPayload{})
	if err != nil {
		logger.Error("build sla scan task", slog.Any("error", err))
		os.Exit(1)
	}
	reconcileTask, err := jobs.NewWorkloadReconcileTask(jobs.WorkloadReconcilePayload{})
	if err != nil {
		logger.Error("build reconcile task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSLAScan, Handler: slaJob.Handle},
			{Type: jobs.TaskWorkloadReconcile, Handler: reconcileJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.SLAScanSpec, Task: slaTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: cfg.WorkloadReconcileSpec, Task: reconcileTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker")
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
