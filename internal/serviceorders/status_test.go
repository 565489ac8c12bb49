package serviceorders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to ServiceStatus
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusPending, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusInProgress, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func items(statuses ...ServiceStatus) []ServiceItem {
	out := make([]ServiceItem, len(statuses))
	for i, s := range statuses {
		out[i] = ServiceItem{Status: s}
	}
	return out
}

func TestAggregateStatus(t *testing.T) {
	cases := []struct {
		name  string
		items []ServiceItem
		want  ServiceStatus
	}{
		{"empty", nil, StatusPending},
		{"all pending", items(StatusPending, StatusPending), StatusPending},
		{"all completed", items(StatusCompleted, StatusCompleted), StatusCompleted},
		{"all cancelled", items(StatusCancelled, StatusCancelled), StatusCancelled},
		{"one in progress", items(StatusPending, StatusInProgress), StatusInProgress},
		{"completed and pending", items(StatusCompleted, StatusPending), StatusInProgress},
		{"completed and cancelled", items(StatusCompleted, StatusCancelled), StatusInProgress},
		{"cancelled and pending", items(StatusCancelled, StatusPending), StatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AggregateStatus(tc.items))
		})
	}
}
