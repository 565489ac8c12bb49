package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/elektra-pos/elektra-pos/internal/employees"
	jobmetrics "github.com/elektra-pos/elektra-pos/internal/jobs"
	"github.com/elektra-pos/elektra-pos/internal/serviceorders"
)

// WorkloadReconcileJob recomputes each technician's workload counter from
// their assigned non-terminal service items. The counters move by atomic
// increments during normal operation; this job repairs any drift left by
// crashes or manual data fixes.
type WorkloadReconcileJob struct {
	Orders    serviceorders.Repository
	Employees employees.Repository
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewWorkloadReconcileJob initialises the reconcile handler.
func NewWorkloadReconcileJob(orders serviceorders.Repository, emps employees.Repository, logger *slog.Logger, metrics *jobmetrics.Metrics) *WorkloadReconcileJob {
	return &WorkloadReconcileJob{Orders: orders, Employees: emps, Logger: logger, Metrics: metrics}
}

// Handle executes one reconcile run.
func (j *WorkloadReconcileJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Orders == nil || j.Employees == nil {
		return errors.New("workload reconcile: handler not configured")
	}
	var payload WorkloadReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start := time.Now()
	logger := j.logger()
	logger.Info("starting workload reconcile")

	tracker := j.metrics().Track(TaskWorkloadReconcile)
	live, err := j.Orders.CountActiveByTechnician(ctx)
	if err != nil {
		logger.Error("count active items failed", slog.Any("error", err))
		return tracker.End(err)
	}
	staff, err := j.Employees.List(ctx)
	if err != nil {
		logger.Error("list employees failed", slog.Any("error", err))
		return tracker.End(err)
	}

	repaired := 0
	for _, e := range staff {
		want := live[e.ID]
		if e.CurrentWorkload == want {
			continue
		}
		logger.Warn("workload drift",
			slog.Int64("technician_id", e.ID),
			slog.Int("recorded", e.CurrentWorkload),
			slog.Int("live", want),
		)
		if payload.DryRun {
			continue
		}
		if err := j.Employees.SetWorkload(ctx, e.ID, want); err != nil {
			logger.Error("set workload failed", slog.Int64("technician_id", e.ID), slog.Any("error", err))
			return tracker.End(err)
		}
		repaired++
	}

	logger.Info("completed workload reconcile",
		slog.Int("technicians", len(staff)),
		slog.Int("repaired", repaired),
		slog.Duration("duration", time.Since(start)),
	)
	return tracker.End(nil)
}

func (j *WorkloadReconcileJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *WorkloadReconcileJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskWorkloadReconcile))
	}
	return slog.Default().With(slog.String("job", TaskWorkloadReconcile))
}
