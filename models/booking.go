package models

import (
	"math"
	"time"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ReferenceCode string `gorm:"column:reference_code;size:16;uniqueIndex" json:"referenceCode"`
	GuestID       uint   `gorm:"column:guest_id;index;not null" json:"guestId"`
	RoomID        uint   `gorm:"column:room_id;index;not null" json:"roomId"`

	CheckIn  time.Time `gorm:"column:check_in;index;not null" json:"checkIn"`
	CheckOut time.Time `gorm:"column:check_out;index;not null" json:"checkOut"`

	Status      BookingStatus `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
	TotalNights int           `gorm:"column:total_nights;not null" json:"totalNights"`
	TotalAmount float64       `gorm:"column:total_amount;not null" json:"totalAmount"`

	Adults          int    `gorm:"column:adults;not null" json:"adults"`
	Children        int    `gorm:"column:children;not null" json:"children"`
	SpecialRequests string `gorm:"column:special_requests;type:text" json:"specialRequests"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Guest *User `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	Room  *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// NightsBetween returns ceil((checkOut-checkIn) / 24h). Callers must ensure checkOut is after checkIn.
func NightsBetween(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

// Derive recomputes the stored fields that depend on the stay dates and the nightly rate.
func (b *Booking) Derive(rate float64) {
	b.TotalNights = NightsBetween(b.CheckIn, b.CheckOut)
	b.TotalAmount = roundMoney(float64(b.TotalNights) * rate)
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
