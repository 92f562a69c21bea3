package models

import (
	"time"

	"gorm.io/datatypes"
)

type RoomType struct {
	ID          uint                       `gorm:"primaryKey" json:"id"`
	Name        string                     `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string                     `gorm:"type:text" json:"description"`
	BasePrice   float64                    `gorm:"column:base_price;not null" json:"basePrice"`
	Capacity    int                        `gorm:"not null" json:"capacity"`
	Amenities   datatypes.JSONSlice[string] `gorm:"column:amenities" json:"amenities"`
	IsAvailable bool                       `gorm:"column:is_available;not null" json:"isAvailable"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RoomTypeStats is the admin count summary.
type RoomTypeStats struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	Unavailable int64 `json:"unavailable"`
}
