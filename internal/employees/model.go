package employees

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusWorking  Status = "working"
)

type Employee struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Phone           *string   `json:"phone,omitempty" db:"phone"`
	Email           *string   `json:"email,omitempty" db:"email"`
	Status          Status    `json:"status" db:"status"`
	IsAvailable     bool      `json:"is_available" db:"is_available"`
	IsQueueLocked   bool      `json:"is_queue_locked" db:"is_queue_locked"`
	QueueLockReason *string   `json:"queue_lock_reason,omitempty" db:"queue_lock_reason"`
	CurrentWorkload int       `json:"current_workload" db:"current_workload"`
	MaxWorkload     int       `json:"max_workload" db:"max_workload"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// AcceptsWork reports whether the technician can take another service item.
func (e Employee) AcceptsWork() bool {
	return e.IsAvailable && !e.IsQueueLocked && e.CurrentWorkload < e.MaxWorkload
}
