package models

import (
	"time"
)

type Room struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomNumber   string     `gorm:"column:room_number;uniqueIndex;type:varchar(50);not null" json:"roomNumber"`
	Floor        string     `gorm:"type:varchar(10)" json:"floor"`
	RoomTypeID   uint       `gorm:"column:room_type_id;index;not null" json:"roomTypeId"`
	Status       RoomStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	CurrentPrice float64    `gorm:"column:current_price;not null" json:"currentPrice"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	RoomType *RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType,omitempty"`
}
