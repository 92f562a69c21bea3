package services

import (
	"context"
	"fmt"
	"strings"

	"hotel-backoffice/models"

	"gorm.io/gorm"
)

type RoomService struct {
	DB *gorm.DB
	deps
}

func NewRoomService(db *gorm.DB, opts ...Option) *RoomService {
	return &RoomService{DB: db, deps: newDeps(opts)}
}

type RoomInput struct {
	RoomNumber   *string
	Floor        *string
	RoomTypeID   *uint
	Status       *models.RoomStatus
	CurrentPrice *float64
}

type RoomFilter struct {
	Status     models.RoomStatus
	RoomTypeID uint
	Floor      string
}

func (s *RoomService) ensureRoomType(db *gorm.DB, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := db.First(&rt, id).Error; err != nil {
		return nil, storeError(err, "room type")
	}
	return &rt, nil
}

// Create adds a room. CurrentPrice defaults to the room type's base price.
func (s *RoomService) Create(ctx context.Context, in RoomInput) (*models.Room, error) {
	db := s.DB.WithContext(ctx)

	if in.RoomNumber == nil || strings.TrimSpace(*in.RoomNumber) == "" {
		return nil, Validationf("roomNumber is required")
	}
	if in.RoomTypeID == nil || *in.RoomTypeID == 0 {
		return nil, Validationf("roomTypeId is required")
	}
	rt, err := s.ensureRoomType(db, *in.RoomTypeID)
	if err != nil {
		return nil, err
	}

	room := models.Room{
		RoomNumber:   strings.TrimSpace(*in.RoomNumber),
		RoomTypeID:   rt.ID,
		Status:       models.RoomAvailable,
		CurrentPrice: rt.BasePrice,
	}
	if in.Floor != nil {
		room.Floor = strings.TrimSpace(*in.Floor)
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return nil, Validationf("invalid room status %q", *in.Status)
		}
		room.Status = *in.Status
	}
	if in.CurrentPrice != nil {
		if *in.CurrentPrice < 0 {
			return nil, Validationf("currentPrice cannot be negative")
		}
		room.CurrentPrice = *in.CurrentPrice
	}

	if err := db.Create(&room).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, Conflictf("room number '%s' already exists", room.RoomNumber)
		}
		return nil, storeError(err, "room")
	}
	s.log.Info().Uint("room_id", room.ID).Str("room_number", room.RoomNumber).Msg("room created")
	return s.Get(ctx, room.ID)
}

func (s *RoomService) Get(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).Preload("RoomType").First(&room, id).Error; err != nil {
		return nil, storeError(err, "room")
	}
	return &room, nil
}

func (s *RoomService) List(ctx context.Context, f RoomFilter) ([]models.Room, error) {
	q := s.DB.WithContext(ctx).Preload("RoomType")
	if f.Status != "" {
		if !f.Status.IsValid() {
			return nil, Validationf("invalid room status %q", f.Status)
		}
		q = q.Where("status = ?", f.Status)
	}
	if f.RoomTypeID != 0 {
		q = q.Where("room_type_id = ?", f.RoomTypeID)
	}
	if f.Floor != "" {
		q = q.Where("floor = ?", f.Floor)
	}
	rooms := []models.Room{}
	if err := q.Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ListAvailable returns rooms whose operational status is available, regardless of dates.
func (s *RoomService) ListAvailable(ctx context.Context) ([]models.Room, error) {
	return s.List(ctx, RoomFilter{Status: models.RoomAvailable})
}

func (s *RoomService) Update(ctx context.Context, id uint, in RoomInput) (*models.Room, error) {
	db := s.DB.WithContext(ctx)

	var room models.Room
	if err := db.First(&room, id).Error; err != nil {
		return nil, storeError(err, "room")
	}

	updates := map[string]interface{}{}
	if in.RoomNumber != nil {
		num := strings.TrimSpace(*in.RoomNumber)
		if num == "" {
			return nil, Validationf("roomNumber cannot be empty")
		}
		updates["room_number"] = num
	}
	if in.Floor != nil {
		updates["floor"] = strings.TrimSpace(*in.Floor)
	}
	if in.RoomTypeID != nil {
		if _, err := s.ensureRoomType(db, *in.RoomTypeID); err != nil {
			return nil, err
		}
		updates["room_type_id"] = *in.RoomTypeID
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return nil, Validationf("invalid room status %q", *in.Status)
		}
		updates["status"] = *in.Status
	}
	if in.CurrentPrice != nil {
		if *in.CurrentPrice < 0 {
			return nil, Validationf("currentPrice cannot be negative")
		}
		updates["current_price"] = *in.CurrentPrice
	}

	if len(updates) > 0 {
		if err := db.Model(&room).Updates(updates).Error; err != nil {
			if isDuplicateKeyError(err) {
				return nil, Conflictf("room number '%v' already exists", updates["room_number"])
			}
			return nil, storeError(err, "room")
		}
	}
	return s.Get(ctx, id)
}

// UpdateStatus is the operational override used by the front desk. Any status may be set.
func (s *RoomService) UpdateStatus(ctx context.Context, id uint, status models.RoomStatus) (*models.Room, error) {
	if !status.IsValid() {
		return nil, Validationf("invalid room status %q", status)
	}
	res := s.DB.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("update room status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, NotFoundf("room not found")
	}
	s.log.Info().Uint("room_id", id).Str("status", string(status)).Msg("room status set")
	return s.Get(ctx, id)
}

// Delete removes a room unless a reserved or checked-in booking still references it.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, id).Error; err != nil {
			return storeError(err, "room")
		}

		var active int64
		if err := tx.Model(&models.Booking{}).
			Where("room_id = ? AND status IN ?", id, models.ActiveBookingStatuses).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return Conflictf("room %s has %d active bookings", room.RoomNumber, active)
		}

		if err := tx.Delete(&room).Error; err != nil {
			if isForeignKeyError(err) {
				return Conflictf("room %s is still referenced by other records", room.RoomNumber)
			}
			return fmt.Errorf("delete room: %w", err)
		}
		s.log.Info().Uint("room_id", id).Msg("room deleted")
		return nil
	})
}
