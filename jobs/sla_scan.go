package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/elektra-pos/elektra-pos/internal/jobs"
	"github.com/elektra-pos/elektra-pos/internal/serviceorders"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// SLAScanJob walks non-terminal service items and stamps the breach flag on
// anything past its deadline. Completion-time stamping remains the primary
// path; the scan catches items that sit untouched past their deadline.
type SLAScanJob struct {
	Service *serviceorders.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewSLAScanJob initialises the scan handler.
func NewSLAScanJob(service *serviceorders.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *SLAScanJob {
	return &SLAScanJob{
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes one scan run.
func (j *SLAScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("sla scan: handler not configured")
	}
	var payload SLAScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start := j.now()
	logger := j.logger()
	logger.Info("starting sla scan")

	if payload.DryRun {
		logger.Info("dry run, skipping flag writes")
		return nil
	}

	tracker := j.metrics().Track(TaskSLAScan)
	flagged, err := j.Service.ScanOverdue(ctx, start)
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))
		return tracker.End(err)
	}
	j.metrics().AddSLABreaches(flagged)

	logger.Info("completed sla scan",
		slog.Int("flagged", flagged),
		slog.Duration("duration", time.Since(start)),
	)
	return tracker.End(nil)
}

func (j *SLAScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *SLAScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskSLAScan))
	}
	return slog.Default().With(slog.String("job", TaskSLAScan))
}

func (j *SLAScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
