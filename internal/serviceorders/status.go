package serviceorders

import "errors"

var ErrInvalidTransition = errors.New("invalid status transition")

// CanTransition reports whether a service item may move between the two
// statuses. Work moves forward only: pending to in_progress to completed,
// with cancellation allowed until the work is done.
func CanTransition(from, to ServiceStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusInProgress || to == StatusCancelled
	case StatusInProgress:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}

// AggregateStatus derives the parent order status from its items.
func AggregateStatus(items []ServiceItem) ServiceStatus {
	if len(items) == 0 {
		return StatusPending
	}

	allCompleted := true
	allCancelled := true
	anyActive := false
	for _, item := range items {
		if item.Status != StatusCompleted {
			allCompleted = false
		}
		if item.Status != StatusCancelled {
			allCancelled = false
		}
		if item.Status == StatusInProgress || item.Status == StatusCompleted {
			anyActive = true
		}
	}

	switch {
	case allCompleted:
		return StatusCompleted
	case allCancelled:
		return StatusCancelled
	case anyActive:
		return StatusInProgress
	default:
		return StatusPending
	}
}
