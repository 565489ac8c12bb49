package employees

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tech(id int64, workload int) Employee {
	return Employee{
		ID:              id,
		Name:            "Tech",
		IsAvailable:     true,
		CurrentWorkload: workload,
		MaxWorkload:     5,
	}
}

func TestAvailableTechnicians(t *testing.T) {
	unavailable := tech(2, 0)
	unavailable.IsAvailable = false

	locked := tech(3, 0)
	locked.IsQueueLocked = true

	full := tech(4, 5)

	got := AvailableTechnicians([]Employee{tech(1, 2), unavailable, locked, full, tech(5, 0)})
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(5), got[1].ID)
}

func TestRecommendedTechnicianPicksLowestWorkload(t *testing.T) {
	got := RecommendedTechnician([]Employee{tech(1, 3), tech(2, 1), tech(3, 2)})
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)
}

func TestRecommendedTechnicianStableTieBreak(t *testing.T) {
	got := RecommendedTechnician([]Employee{tech(7, 1), tech(8, 1)})
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.ID)
}

func TestRecommendedTechnicianSkipsIneligible(t *testing.T) {
	locked := tech(1, 0)
	locked.IsQueueLocked = true

	got := RecommendedTechnician([]Employee{locked, tech(2, 4)})
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)
}

func TestRecommendedTechnicianNilWhenNobodyEligible(t *testing.T) {
	full := tech(1, 5)
	assert.Nil(t, RecommendedTechnician([]Employee{full}))
	assert.Nil(t, RecommendedTechnician(nil))
}
