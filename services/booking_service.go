// services/booking_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel-backoffice/events"
	"hotel-backoffice/metrics"
	"hotel-backoffice/models"
	"hotel-backoffice/utils"

	"gorm.io/gorm"
)

// BookingService owns the reservation lifecycle: creation, availability and status transitions.
type BookingService struct {
	DB *gorm.DB
	deps
}

func NewBookingService(db *gorm.DB, opts ...Option) *BookingService {
	return &BookingService{DB: db, deps: newDeps(opts)}
}

type CreateBookingInput struct {
	GuestID         uint
	RoomID          uint
	CheckIn         time.Time
	CheckOut        time.Time
	Adults          int
	Children        int
	SpecialRequests string
}

// UpdateBookingInput carries the fields an administrative update may change. Nil means unchanged.
type UpdateBookingInput struct {
	CheckIn         *time.Time
	CheckOut        *time.Time
	Adults          *int
	Children        *int
	SpecialRequests *string
	Status          *models.BookingStatus
}

type BookingFilter struct {
	Status  models.BookingStatus
	RoomID  uint
	GuestID uint
	From    *time.Time
	To      *time.Time
}

func validateStay(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return Validationf("checkIn and checkOut are required")
	}
	if !checkOut.After(checkIn) {
		return Validationf("checkOut must be after checkIn")
	}
	return nil
}

func validateParty(adults, children int) error {
	if adults < 1 {
		return Validationf("adults must be at least 1")
	}
	if children < 0 {
		return Validationf("children cannot be negative")
	}
	return nil
}

// overlapping scopes a booking query to active bookings intersecting [checkIn, checkOut], bounds inclusive.
func overlapping(checkIn, checkOut time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("status IN ?", models.ActiveBookingStatuses).
			Where("check_in <= ? AND check_out >= ?", checkOut, checkIn)
	}
}

// ensureRoomFree is the single write-time consistency check. excludeID skips the booking being edited.
func ensureRoomFree(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeID uint) error {
	q := tx.Model(&models.Booking{}).Scopes(overlapping(checkIn, checkOut)).Where("room_id = ?", roomID)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return fmt.Errorf("check room overlap: %w", err)
	}
	if n > 0 {
		return Conflictf("room is already booked between %s and %s",
			checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
	}
	return nil
}

func bookingKey(id uint) string {
	return fmt.Sprintf("booking:%d", id)
}

func bookingPayload(b *models.Booking, from models.BookingStatus) events.BookingPayload {
	return events.BookingPayload{
		BookingID:     b.ID,
		ReferenceCode: b.ReferenceCode,
		GuestID:       b.GuestID,
		RoomID:        b.RoomID,
		From:          string(from),
		Status:        string(b.Status),
		CheckIn:       b.CheckIn,
		CheckOut:      b.CheckOut,
	}
}

func transitionEvent(to models.BookingStatus) string {
	switch to {
	case models.BookingCheckedIn:
		return events.BookingCheckedIn
	case models.BookingCheckedOut:
		return events.BookingCheckedOut
	default:
		return events.BookingCancelled
	}
}

// CreateBooking validates the stay, derives nights and amount from the room's current price, and
// persists the booking as reserved. An overlapping active booking on the room fails with Conflict.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if err := validateStay(in.CheckIn, in.CheckOut); err != nil {
		return nil, err
	}
	if in.Adults == 0 {
		in.Adults = 1
	}
	if err := validateParty(in.Adults, in.Children); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)

	var guest models.User
	if err := db.First(&guest, in.GuestID).Error; err != nil {
		return nil, storeError(err, "guest")
	}
	var room models.Room
	if err := db.First(&room, in.RoomID).Error; err != nil {
		return nil, storeError(err, "room")
	}

	release, err := s.hold.Acquire(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	ref, err := utils.GenerateReferenceCode()
	if err != nil {
		return nil, fmt.Errorf("generate reference code: %w", err)
	}

	booking := models.Booking{
		ReferenceCode:   ref,
		GuestID:         guest.ID,
		RoomID:          room.ID,
		CheckIn:         in.CheckIn.UTC(),
		CheckOut:        in.CheckOut.UTC(),
		Status:          models.BookingReserved,
		Adults:          in.Adults,
		Children:        in.Children,
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
	}
	booking.Derive(room.CurrentPrice)

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := ensureRoomFree(tx, room.ID, booking.CheckIn, booking.CheckOut, 0); err != nil {
			return err
		}
		return storeError(tx.Create(&booking).Error, "booking")
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("booking_id", booking.ID).
		Str("reference", booking.ReferenceCode).
		Uint("room_id", booking.RoomID).
		Int("nights", booking.TotalNights).
		Msg("booking created")
	s.publish(events.BookingCreated, bookingKey(booking.ID), bookingPayload(&booking, ""))

	return s.GetBooking(ctx, booking.ID)
}

// CheckAvailability lists rooms whose status is available and that have no reserved or checked-in
// booking intersecting [checkIn, checkOut]. Bounds are inclusive, so a stay ending on checkIn conflicts.
func (s *BookingService) CheckAvailability(ctx context.Context, checkIn, checkOut time.Time, roomTypeID *uint) ([]models.Room, error) {
	if err := validateStay(checkIn, checkOut); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)

	booked := db.Model(&models.Booking{}).Select("room_id").Scopes(overlapping(checkIn.UTC(), checkOut.UTC()))

	q := db.Preload("RoomType").
		Where("status = ?", models.RoomAvailable).
		Where("id NOT IN (?)", booked)
	if roomTypeID != nil {
		q = q.Where("room_type_id = ?", *roomTypeID)
	}

	rooms := []models.Room{}
	if err := q.Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("query available rooms: %w", err)
	}
	return rooms, nil
}

// CheckIn moves a reserved booking to checked-in and marks the room occupied.
func (s *BookingService) CheckIn(ctx context.Context, id uint) (*models.Booking, error) {
	return s.transition(ctx, id, models.BookingCheckedIn)
}

// CheckOut moves a checked-in booking to checked-out and sends the room to cleaning.
func (s *BookingService) CheckOut(ctx context.Context, id uint) (*models.Booking, error) {
	return s.transition(ctx, id, models.BookingCheckedOut)
}

// Cancel moves a reserved or checked-in booking to cancelled.
func (s *BookingService) Cancel(ctx context.Context, id uint) (*models.Booking, error) {
	return s.transition(ctx, id, models.BookingCancelled)
}

func (s *BookingService) transition(ctx context.Context, id uint, to models.BookingStatus) (*models.Booking, error) {
	var booking models.Booking
	var from models.BookingStatus

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, id).Error; err != nil {
			return storeError(err, "booking")
		}
		from = booking.Status
		return s.applyTransition(tx, &booking, to)
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(&booking, from)
	return s.GetBooking(ctx, id)
}

// applyTransition enforces the transition table and writes the status plus its room cascade.
// The update is conditional on the status read, so a concurrent transition loses cleanly.
func (s *BookingService) applyTransition(tx *gorm.DB, booking *models.Booking, to models.BookingStatus) error {
	from := booking.Status
	if !to.IsValid() {
		return Validationf("invalid booking status %q", to)
	}
	if !from.CanTransitionTo(to) {
		return InvalidTransitionf("cannot change booking from %s to %s", from, to)
	}

	res := tx.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("update booking status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return InvalidTransitionf("booking %d changed concurrently, reload and retry", booking.ID)
	}
	booking.Status = to

	if roomStatus, ok := bookingRoomCascade(from, to); ok {
		cause := fmt.Sprintf("booking %d %s -> %s", booking.ID, from, to)
		if err := cascadeRoomStatus(tx, s.log, booking.RoomID, roomStatus, cause); err != nil {
			return err
		}
	}
	return nil
}

func (s *BookingService) afterTransition(booking *models.Booking, from models.BookingStatus) {
	metrics.IncBookingTransition(string(from), string(booking.Status))
	s.log.Info().
		Uint("booking_id", booking.ID).
		Str("from", string(from)).
		Str("to", string(booking.Status)).
		Msg("booking status changed")
	s.publish(transitionEvent(booking.Status), bookingKey(booking.ID), bookingPayload(booking, from))
}

// UpdateBooking applies an administrative patch. Status changes go through the transition table;
// date changes re-run the overlap check and recompute the derived fields.
func (s *BookingService) UpdateBooking(ctx context.Context, id uint, in UpdateBookingInput) (*models.Booking, error) {
	var booking models.Booking
	var from models.BookingStatus
	statusChanged := false

	current, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	datesChanged := in.CheckIn != nil || in.CheckOut != nil
	if datesChanged {
		release, err := s.hold.Acquire(ctx, current.RoomID)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Room").First(&booking, id).Error; err != nil {
			return storeError(err, "booking")
		}
		from = booking.Status
		updates := map[string]interface{}{}

		if datesChanged {
			if !booking.Status.HoldsRoom() {
				return Validationf("dates of a %s booking cannot change", booking.Status)
			}
			if in.CheckIn != nil {
				booking.CheckIn = in.CheckIn.UTC()
			}
			if in.CheckOut != nil {
				booking.CheckOut = in.CheckOut.UTC()
			}
			if err := validateStay(booking.CheckIn, booking.CheckOut); err != nil {
				return err
			}
			if err := ensureRoomFree(tx, booking.RoomID, booking.CheckIn, booking.CheckOut, booking.ID); err != nil {
				return err
			}
			rate := 0.0
			if booking.Room != nil {
				rate = booking.Room.CurrentPrice
			}
			booking.Derive(rate)
			updates["check_in"] = booking.CheckIn
			updates["check_out"] = booking.CheckOut
			updates["total_nights"] = booking.TotalNights
			updates["total_amount"] = booking.TotalAmount
		}

		if in.Adults != nil {
			booking.Adults = *in.Adults
		}
		if in.Children != nil {
			booking.Children = *in.Children
		}
		if in.Adults != nil || in.Children != nil {
			if err := validateParty(booking.Adults, booking.Children); err != nil {
				return err
			}
			updates["adults"] = booking.Adults
			updates["children"] = booking.Children
		}
		if in.SpecialRequests != nil {
			updates["special_requests"] = strings.TrimSpace(*in.SpecialRequests)
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
				return storeError(err, "booking")
			}
		}

		// Repeating the current status is not a transition.
		if in.Status != nil && *in.Status != booking.Status {
			if err := s.applyTransition(tx, &booking, *in.Status); err != nil {
				return err
			}
			statusChanged = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if statusChanged {
		s.afterTransition(&booking, from)
	}
	return s.GetBooking(ctx, id)
}

func (s *BookingService) findBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, storeError(err, "booking")
	}
	return &booking, nil
}

// GetBooking loads a booking with its guest and room.
func (s *BookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.WithContext(ctx).
		Preload("Guest").
		Preload("Room.RoomType").
		First(&booking, id).Error; err != nil {
		return nil, storeError(err, "booking")
	}
	return &booking, nil
}

// ListBookings returns bookings newest first.
func (s *BookingService) ListBookings(ctx context.Context, f BookingFilter) ([]models.Booking, error) {
	q := s.DB.WithContext(ctx).Preload("Guest").Preload("Room.RoomType")
	if f.Status != "" {
		if !f.Status.IsValid() {
			return nil, Validationf("invalid booking status %q", f.Status)
		}
		q = q.Where("status = ?", f.Status)
	}
	if f.RoomID != 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.GuestID != 0 {
		q = q.Where("guest_id = ?", f.GuestID)
	}
	if f.From != nil {
		q = q.Where("check_out >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("check_in <= ?", f.To.UTC())
	}

	bookings := []models.Booking{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// DeleteBooking removes a booking that has no invoice or feedback attached.
func (s *BookingService) DeleteBooking(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, id).Error; err != nil {
			return storeError(err, "booking")
		}

		var invoices, feedback int64
		if err := tx.Model(&models.Invoice{}).Where("booking_id = ?", id).Count(&invoices).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Feedback{}).Where("booking_id = ?", id).Count(&feedback).Error; err != nil {
			return err
		}
		if invoices > 0 || feedback > 0 {
			return Conflictf("booking %d has invoices or feedback and cannot be deleted", id)
		}

		if err := tx.Delete(&booking).Error; err != nil {
			if isForeignKeyError(err) {
				return Conflictf("booking %d is still referenced", id)
			}
			return fmt.Errorf("failed to delete booking: %w", err)
		}
		s.log.Info().Uint("booking_id", id).Msg("booking deleted")
		return nil
	})
}

// IsOwner reports whether the booking belongs to the user.
func (s *BookingService) IsOwner(ctx context.Context, bookingID, userID uint) (bool, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return false, err
	}
	return booking.GuestID == userID, nil
}
