package services

import (
	"fmt"

	"hotel-backoffice/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// cascadeRoomStatus writes the room status that follows a booking or task transition.
// It runs on the caller's transaction. A missing room is logged and skipped: room status is
// operational state and must not block the primary write.
func cascadeRoomStatus(tx *gorm.DB, log zerolog.Logger, roomID uint, status models.RoomStatus, cause string) error {
	res := tx.Model(&models.Room{}).Where("id = ?", roomID).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("cascade room %d to %s: %w", roomID, status, res.Error)
	}
	if res.RowsAffected == 0 {
		log.Warn().
			Uint("room_id", roomID).
			Str("status", string(status)).
			Str("cause", cause).
			Msg("room status cascade skipped: room not found")
		return nil
	}
	log.Info().Uint("room_id", roomID).Str("status", string(status)).Str("cause", cause).Msg("room status updated")
	return nil
}

// bookingRoomCascade returns the room status implied by a booking transition, if any.
func bookingRoomCascade(from, to models.BookingStatus) (models.RoomStatus, bool) {
	switch {
	case to == models.BookingCheckedIn:
		return models.RoomOccupied, true
	case to == models.BookingCheckedOut:
		return models.RoomCleaning, true
	case from == models.BookingCheckedIn && to == models.BookingCancelled:
		return models.RoomCleaning, true
	}
	return "", false
}
