package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultShippingTable(t *testing.T) {
	tests := []struct {
		zone  string
		fee   string
		label string
	}{
		{"Runda", "300", "Runda"},
		{"Redhill Road", "400", "Redhill Road"},
		{"Westlands", "250", "Westlands"},
		{"", "0", ZoneNotSelected},
		{"Mombasa", "0", ZoneNotSelected},
	}
	for _, tt := range tests {
		t.Run(tt.label+"/"+tt.zone, func(t *testing.T) {
			assert.True(t, DefaultShippingTable.Fee(tt.zone).Equal(decimal.RequireFromString(tt.fee)))
			assert.Equal(t, tt.label, DefaultShippingTable.Label(tt.zone))
		})
	}
}

func TestShippingZonesSorted(t *testing.T) {
	zones := DefaultShippingTable.Zones()
	require.Len(t, zones, 11)
	for i := 1; i < len(zones); i++ {
		assert.Less(t, zones[i-1].Name, zones[i].Name)
	}
}

func TestCartWithShipping(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(product(1, "Eggs", "100"), 2))

	total := cart.TotalPrice().Add(DefaultShippingTable.Fee("Runda"))
	assert.Equal(t, "500.00", total.StringFixed(2))
}
