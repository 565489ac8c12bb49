package pos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektra-pos/elektra-pos/internal/customers"
)

func TestNewDraftStartsRetailWithOneLocation(t *testing.T) {
	d := NewDraft()
	assert.Equal(t, TypeRetail, d.Type)
	assert.Equal(t, MethodCash, d.PaymentMethod)
	require.Len(t, d.Locations, 1)
	assert.Equal(t, "Default", d.Locations[0].Name)
}

func TestAddItemMergesSameProduct(t *testing.T) {
	d := NewDraft()
	locID := d.DefaultLocation().ID

	require.NoError(t, d.AddItem(locID, 1, "MCB 10A", 60000, 45000, 2))
	require.NoError(t, d.AddItem(locID, 1, "MCB 10A", 60000, 45000, 3))

	loc := d.DefaultLocation()
	require.Len(t, loc.Items, 1)
	assert.Equal(t, 5, loc.Items[0].Quantity)
	assert.Equal(t, int64(300000), loc.Items[0].Subtotal)
	assert.Equal(t, int64(300000), loc.Subtotal)
}

func TestAddItemSeparateLinesPerProduct(t *testing.T) {
	d := NewDraft()
	locID := d.DefaultLocation().ID

	require.NoError(t, d.AddItem(locID, 1, "MCB 10A", 60000, 45000, 1))
	require.NoError(t, d.AddItem(locID, 2, "Lampu LED", 38000, 28000, 2))

	loc := d.DefaultLocation()
	require.Len(t, loc.Items, 2)
	assert.Equal(t, int64(136000), loc.Subtotal)
}

func TestUpdateAndRemoveItem(t *testing.T) {
	d := NewDraft()
	locID := d.DefaultLocation().ID
	require.NoError(t, d.AddItem(locID, 1, "MCB 10A", 60000, 45000, 2))
	itemID := d.DefaultLocation().Items[0].ID

	require.NoError(t, d.UpdateItemQuantity(locID, itemID, 4))
	assert.Equal(t, int64(240000), d.DefaultLocation().Items[0].Subtotal)

	assert.ErrorIs(t, d.UpdateItemQuantity(locID, itemID, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, d.UpdateItemQuantity(locID, "nope", 1), ErrItemNotFound)

	require.NoError(t, d.RemoveItem(locID, itemID))
	assert.Empty(t, d.DefaultLocation().Items)
	assert.Equal(t, int64(0), d.DefaultLocation().Subtotal)
}

func TestRemoveLocationKeepsAtLeastOne(t *testing.T) {
	d := NewDraft()
	assert.ErrorIs(t, d.RemoveLocation(d.DefaultLocation().ID), ErrLastLocation)

	loc := d.AddLocation("Lantai 2", "")
	require.Len(t, d.Locations, 2)
	require.NoError(t, d.RemoveLocation(loc.ID))
	assert.Len(t, d.Locations, 1)
	assert.ErrorIs(t, d.RemoveLocation("nope"), ErrLastLocation)
}

func TestAddServiceValidation(t *testing.T) {
	d := NewDraft()
	locID := d.DefaultLocation().ID

	err := d.AddService(locID, ServiceItemInput{DeviceName: "   "})
	assert.ErrorIs(t, err, ErrDeviceNameRequired)

	err = d.AddService(locID, ServiceItemInput{DeviceName: "TV Samsung", LaborCost: -1})
	assert.ErrorIs(t, err, ErrNegativePrice)

	require.NoError(t, d.AddService(locID, ServiceItemInput{DeviceName: "TV Samsung", LaborCost: 150000}))
	loc := d.DefaultLocation()
	require.Len(t, loc.Services, 1)
	assert.NotEmpty(t, loc.Services[0].ID)
	assert.Equal(t, int64(150000), loc.Subtotal)
}

func TestSetTypeProjectToRetailFlattensLocations(t *testing.T) {
	d := NewDraft()
	d.SetType(TypeProject)
	first := d.DefaultLocation().ID
	second := d.AddLocation("Gudang", "").ID

	require.NoError(t, d.AddItem(first, 1, "Kabel NYM", 10000, 8000, 1))
	require.NoError(t, d.AddItem(second, 2, "Stop Kontak", 20000, 15000, 1))
	require.NoError(t, d.AddService(second, ServiceItemInput{DeviceName: "Panel", LaborCost: 5000}))

	d.SetType(TypeRetail)

	require.Len(t, d.Locations, 1)
	loc := d.DefaultLocation()
	assert.Len(t, loc.Items, 2)
	assert.Len(t, loc.Services, 1)
	assert.Equal(t, int64(35000), loc.Subtotal)
	for _, item := range loc.Items {
		assert.Equal(t, loc.ID, item.LocationID)
	}
	for _, svc := range loc.Services {
		assert.Equal(t, loc.ID, svc.LocationID)
	}
}

func TestSetTempoEligibility(t *testing.T) {
	d := NewDraft()

	// walk-in customer may not defer payment
	assert.ErrorIs(t, d.SetTempo(true), ErrTempoNotEligible)

	id := "b2c7f6a0-0000-0000-0000-000000000001"
	d.SetCustomer(&id, customers.CategoryInstitution)
	require.NoError(t, d.SetPaidAmount(50000))
	require.NoError(t, d.SetTempo(true))
	assert.True(t, d.IsTempo)
	assert.Equal(t, MethodTempo, d.PaymentMethod)
	assert.Equal(t, int64(0), d.PaidAmount)

	require.NoError(t, d.SetTempo(false))
	assert.False(t, d.IsTempo)
	assert.Equal(t, MethodCash, d.PaymentMethod)
	assert.Nil(t, d.TempoDueDate)
}

func TestSetCustomerDowngradeDisablesTempo(t *testing.T) {
	d := NewDraft()
	instID := "b2c7f6a0-0000-0000-0000-000000000002"
	d.SetCustomer(&instID, customers.CategoryInstitution)
	require.NoError(t, d.SetTempo(true))

	retailID := "b2c7f6a0-0000-0000-0000-000000000003"
	d.SetCustomer(&retailID, customers.CategoryRetail)
	assert.False(t, d.IsTempo)
	assert.Equal(t, MethodCash, d.PaymentMethod)
}

func TestSetPaymentMethodIgnoresTempoMarker(t *testing.T) {
	d := NewDraft()
	d.SetPaymentMethod(MethodQRIS)
	assert.Equal(t, MethodQRIS, d.PaymentMethod)

	d.SetPaymentMethod(MethodTempo)
	assert.Equal(t, MethodQRIS, d.PaymentMethod)

	assert.ErrorIs(t, d.SetPaidAmount(-1), ErrNegativePaidAmount)
}
