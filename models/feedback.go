package models

import (
	"strconv"
	"time"
)

const (
	MinRating          = 1
	MaxRating          = 5
	MaxFeedbackComment = 500
)

type Feedback struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BookingID   uint      `gorm:"column:booking_id;uniqueIndex;not null" json:"bookingId"`
	GuestID     uint      `gorm:"column:guest_id;index;not null" json:"guestId"`
	Rating      int       `gorm:"index;not null" json:"rating"`
	Comment     string    `gorm:"type:varchar(500)" json:"comment"`
	SubmittedAt time.Time `gorm:"column:submitted_at;not null" json:"submittedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	Guest   *User    `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
}

// RatingCount is one row of a GROUP BY rating query.
type RatingCount struct {
	Rating int
	Count  int64
}

type FeedbackStats struct {
	AverageRating float64          `json:"averageRating"`
	Total         int64            `json:"totalFeedback"`
	Distribution  map[string]int64 `json:"ratingDistribution"`
}

// SummarizeRatings folds per-rating counts into stats. Every rating 1..5 is present in the histogram.
func SummarizeRatings(rows []RatingCount) FeedbackStats {
	stats := FeedbackStats{Distribution: make(map[string]int64, MaxRating)}
	for r := MinRating; r <= MaxRating; r++ {
		stats.Distribution[strconv.Itoa(r)] = 0
	}

	var sum int64
	for _, row := range rows {
		if row.Rating < MinRating || row.Rating > MaxRating {
			continue
		}
		stats.Distribution[strconv.Itoa(row.Rating)] += row.Count
		stats.Total += row.Count
		sum += int64(row.Rating) * row.Count
	}
	if stats.Total > 0 {
		stats.AverageRating = roundMoney(float64(sum) / float64(stats.Total))
	}
	return stats
}
