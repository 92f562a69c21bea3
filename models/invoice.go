package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// InvoiceItem is one line on an invoice. Amount is always derived from Quantity and Rate.
type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

type Invoice struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BookingID uint `gorm:"column:booking_id;index;not null" json:"bookingId"`

	Items    datatypes.JSONSlice[InvoiceItem] `gorm:"column:items" json:"items"`
	Subtotal float64                          `gorm:"not null" json:"subtotal"`
	Tax      float64                          `gorm:"not null" json:"tax"`
	Total    float64                          `gorm:"not null" json:"total"`

	IssuedAt  time.Time  `gorm:"column:issued_at;not null" json:"issuedAt"`
	EmailedTo string     `gorm:"column:emailed_to;type:varchar(255)" json:"emailedTo,omitempty"`
	EmailedAt *time.Time `gorm:"column:emailed_at" json:"emailedAt,omitempty"`
	IsPaid    bool       `gorm:"column:is_paid;not null" json:"isPaid"`
	PaidAt    *time.Time `gorm:"column:paid_at" json:"paidAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}

// RoomChargeItem builds the mandatory first line of a booking invoice.
func RoomChargeItem(roomNumber string, nights int, rate float64) InvoiceItem {
	return InvoiceItem{
		Description: fmt.Sprintf("Room %s – %d nights", roomNumber, nights),
		Quantity:    nights,
		Rate:        rate,
	}
}

// Recalculate overwrites every item amount and the subtotal/total from quantities, rates and tax.
// Client-supplied amounts are never trusted.
func (inv *Invoice) Recalculate() {
	subtotal := 0.0
	for i := range inv.Items {
		inv.Items[i].Amount = roundMoney(float64(inv.Items[i].Quantity) * inv.Items[i].Rate)
		subtotal += inv.Items[i].Amount
	}
	inv.Subtotal = roundMoney(subtotal)
	inv.Total = roundMoney(inv.Subtotal + inv.Tax)
}
