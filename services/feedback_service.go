package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"hotel-backoffice/models"

	"gorm.io/gorm"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type FeedbackService struct {
	DB *gorm.DB
	deps
}

func NewFeedbackService(db *gorm.DB, opts ...Option) *FeedbackService {
	return &FeedbackService{DB: db, deps: newDeps(opts)}
}

type FeedbackFilter struct {
	Rating int
	Page   int
	Limit  int
}

// Normalize applies the page defaults: page 1, limit 10, capped at 100.
func (f *FeedbackFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}
}

func validateFeedback(rating int, comment string) error {
	if rating < models.MinRating || rating > models.MaxRating {
		return Validationf("rating must be between %d and %d", models.MinRating, models.MaxRating)
	}
	if utf8.RuneCountInString(comment) > models.MaxFeedbackComment {
		return Validationf("comment cannot exceed %d characters", models.MaxFeedbackComment)
	}
	return nil
}

// Submit records a guest's rating for one of their checked-out stays. One feedback per booking.
func (s *FeedbackService) Submit(ctx context.Context, guestID, bookingID uint, rating int, comment string) (*models.Feedback, error) {
	comment = strings.TrimSpace(comment)
	if err := validateFeedback(rating, comment); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	var booking models.Booking
	err := db.Where("id = ? AND guest_id = ? AND status = ?", bookingID, guestID, models.BookingCheckedOut).
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundf("valid booking not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}

	var existing int64
	if err := db.Model(&models.Feedback{}).Where("booking_id = ?", bookingID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, Conflictf("feedback already submitted for this booking")
	}

	fb := models.Feedback{
		BookingID:   booking.ID,
		GuestID:     guestID,
		Rating:      rating,
		Comment:     comment,
		SubmittedAt: s.now().UTC(),
	}
	if err := db.Create(&fb).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, Conflictf("feedback already submitted for this booking")
		}
		return nil, storeError(err, "feedback")
	}
	s.log.Info().Uint("feedback_id", fb.ID).Uint("booking_id", fb.BookingID).Int("rating", rating).Msg("feedback submitted")
	return &fb, nil
}

// List returns one page of feedback, newest first, with the total count.
func (s *FeedbackService) List(ctx context.Context, f FeedbackFilter) ([]models.Feedback, int64, error) {
	f.Normalize()
	q := s.DB.WithContext(ctx).Model(&models.Feedback{})
	if f.Rating != 0 {
		if f.Rating < models.MinRating || f.Rating > models.MaxRating {
			return nil, 0, Validationf("rating must be between %d and %d", models.MinRating, models.MaxRating)
		}
		q = q.Where("rating = ?", f.Rating)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count feedback: %w", err)
	}

	items := []models.Feedback{}
	if err := q.Preload("Guest").
		Order("submitted_at DESC").Order("id DESC").
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list feedback: %w", err)
	}
	return items, total, nil
}

func (s *FeedbackService) Get(ctx context.Context, id uint) (*models.Feedback, error) {
	var fb models.Feedback
	if err := s.DB.WithContext(ctx).Preload("Guest").Preload("Booking").First(&fb, id).Error; err != nil {
		return nil, storeError(err, "feedback")
	}
	return &fb, nil
}

func (s *FeedbackService) Stats(ctx context.Context) (*models.FeedbackStats, error) {
	var rows []models.RatingCount
	if err := s.DB.WithContext(ctx).Model(&models.Feedback{}).
		Select("rating, COUNT(*) AS count").
		Group("rating").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("feedback stats: %w", err)
	}
	stats := models.SummarizeRatings(rows)
	return &stats, nil
}

func (s *FeedbackService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Feedback{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete feedback: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFoundf("feedback not found")
	}
	return nil
}
