package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomChargeItem(t *testing.T) {
	item := RoomChargeItem("101", 3, 100)
	assert.Equal(t, "Room 101 – 3 nights", item.Description)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 100.0, item.Rate)
}

func TestInvoiceRecalculate(t *testing.T) {
	inv := Invoice{Items: []InvoiceItem{RoomChargeItem("101", 3, 100)}}
	inv.Recalculate()
	assert.Equal(t, 300.0, inv.Items[0].Amount)
	assert.Equal(t, 300.0, inv.Subtotal)
	assert.Equal(t, 300.0, inv.Total)

	inv.Items = append(inv.Items,
		InvoiceItem{Description: "Minibar", Quantity: 2, Rate: 7.5, Amount: 1000},
		InvoiceItem{Description: "Late checkout", Quantity: 1, Rate: 40, Amount: -3},
	)
	inv.Tax = 24.5
	inv.Recalculate()

	require.Len(t, inv.Items, 3)
	assert.Equal(t, 15.0, inv.Items[1].Amount)
	assert.Equal(t, 40.0, inv.Items[2].Amount)
	assert.Equal(t, 355.0, inv.Subtotal)
	assert.Equal(t, 379.5, inv.Total)
}

func TestInvoiceRecalculateEmpty(t *testing.T) {
	inv := Invoice{Tax: 5}
	inv.Recalculate()
	assert.Zero(t, inv.Subtotal)
	assert.Equal(t, 5.0, inv.Total)
}
