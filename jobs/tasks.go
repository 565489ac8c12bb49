package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSLAScan flags service items whose deadline has passed.
	TaskSLAScan = "sla:scan"
	// TaskWorkloadReconcile repairs technician workload counters from the
	// live set of assigned repairs.
	TaskWorkloadReconcile = "technicians:reconcile"
)

// SLAScanPayload controls one scan run. An empty payload scans everything.
type SLAScanPayload struct {
	DryRun bool `json:"dry_run,omitempty"`
}

// NewSLAScanTask constructs the periodic SLA scan task.
func NewSLAScanTask(payload SLAScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSLAScan, data), nil
}

// WorkloadReconcilePayload controls one reconcile run.
type WorkloadReconcilePayload struct {
	DryRun bool `json:"dry_run,omitempty"`
}

// NewWorkloadReconcileTask constructs the periodic reconcile task.
func NewWorkloadReconcileTask(payload WorkloadReconcilePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWorkloadReconcile, data), nil
}
