package pos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemSubtotal(t *testing.T) {
	got, err := ItemSubtotal(15000, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(60000), got)

	_, err = ItemSubtotal(15000, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ItemSubtotal(-1, 2)
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestItemSubtotalExactIntegerMath(t *testing.T) {
	// whole-Rupiah amounts, no rounding anywhere
	got, err := ItemSubtotal(3333, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(9999), got)
}

func TestServiceTotal(t *testing.T) {
	parts := []CartItem{
		{Subtotal: 85000},
		{Subtotal: 130000},
	}
	assert.Equal(t, int64(365000), ServiceTotal(150000, parts))
	assert.Equal(t, int64(150000), ServiceTotal(150000, nil))
	assert.Equal(t, int64(0), ServiceTotal(0, nil))
}

func TestLocationSubtotalRecomputesFromLines(t *testing.T) {
	loc := LocationDetail{
		Items: []CartItem{{Subtotal: 60000}, {Subtotal: 22000}},
		Services: []ServiceItemInput{
			{LaborCost: 50000, Parts: []CartItem{{Subtotal: 85000}}},
		},
		Subtotal: 999, // stale cache must be ignored
	}
	assert.Equal(t, int64(217000), LocationSubtotal(loc))
}
