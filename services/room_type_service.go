package services

import (
	"context"
	"fmt"
	"strings"

	"hotel-backoffice/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomTypeService struct {
	DB *gorm.DB
	deps
}

func NewRoomTypeService(db *gorm.DB, opts ...Option) *RoomTypeService {
	return &RoomTypeService{DB: db, deps: newDeps(opts)}
}

type RoomTypeInput struct {
	Name        *string
	Description *string
	BasePrice   *float64
	Capacity    *int
	Amenities   []string
	IsAvailable *bool
}

func cleanAmenities(in []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(in))
	for _, a := range in {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func (s *RoomTypeService) Create(ctx context.Context, in RoomTypeInput) (*models.RoomType, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, Validationf("name is required")
	}
	rt := models.RoomType{
		Name:        strings.TrimSpace(*in.Name),
		Capacity:    1,
		Amenities:   cleanAmenities(in.Amenities),
		IsAvailable: true,
	}
	if in.Description != nil {
		rt.Description = strings.TrimSpace(*in.Description)
	}
	if in.BasePrice == nil {
		return nil, Validationf("basePrice is required")
	}
	if *in.BasePrice < 0 {
		return nil, Validationf("basePrice cannot be negative")
	}
	rt.BasePrice = *in.BasePrice
	if in.Capacity != nil {
		if *in.Capacity < 1 {
			return nil, Validationf("capacity must be at least 1")
		}
		rt.Capacity = *in.Capacity
	}
	if in.IsAvailable != nil {
		rt.IsAvailable = *in.IsAvailable
	}

	if err := s.DB.WithContext(ctx).Create(&rt).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, Conflictf("room type '%s' already exists", rt.Name)
		}
		return nil, storeError(err, "room type")
	}
	return &rt, nil
}

func (s *RoomTypeService) Get(ctx context.Context, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.DB.WithContext(ctx).First(&rt, id).Error; err != nil {
		return nil, storeError(err, "room type")
	}
	return &rt, nil
}

// List returns room types by name, optionally filtered by availability.
func (s *RoomTypeService) List(ctx context.Context, isAvailable *bool) ([]models.RoomType, error) {
	q := s.DB.WithContext(ctx)
	if isAvailable != nil {
		q = q.Where("is_available = ?", *isAvailable)
	}
	types := []models.RoomType{}
	if err := q.Order("name ASC").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}
	return types, nil
}

// Search matches the query case-insensitively against name, description and amenities.
// Amenities live in a JSON column whose text form differs per driver, so matching happens here.
func (s *RoomTypeService) Search(ctx context.Context, query string) ([]models.RoomType, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, Validationf("search query is required")
	}
	all, err := s.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	matches := []models.RoomType{}
	for _, rt := range all {
		if roomTypeMatches(rt, needle) {
			matches = append(matches, rt)
		}
	}
	return matches, nil
}

func roomTypeMatches(rt models.RoomType, needle string) bool {
	if strings.Contains(strings.ToLower(rt.Name), needle) || strings.Contains(strings.ToLower(rt.Description), needle) {
		return true
	}
	for _, a := range rt.Amenities {
		if strings.Contains(strings.ToLower(a), needle) {
			return true
		}
	}
	return false
}

func (s *RoomTypeService) Update(ctx context.Context, id uint, in RoomTypeInput) (*models.RoomType, error) {
	db := s.DB.WithContext(ctx)
	var rt models.RoomType
	if err := db.First(&rt, id).Error; err != nil {
		return nil, storeError(err, "room type")
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, Validationf("name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if in.BasePrice != nil {
		if *in.BasePrice < 0 {
			return nil, Validationf("basePrice cannot be negative")
		}
		updates["base_price"] = *in.BasePrice
	}
	if in.Capacity != nil {
		if *in.Capacity < 1 {
			return nil, Validationf("capacity must be at least 1")
		}
		updates["capacity"] = *in.Capacity
	}
	if in.Amenities != nil {
		updates["amenities"] = cleanAmenities(in.Amenities)
	}
	if in.IsAvailable != nil {
		updates["is_available"] = *in.IsAvailable
	}

	if len(updates) > 0 {
		if err := db.Model(&rt).Updates(updates).Error; err != nil {
			if isDuplicateKeyError(err) {
				return nil, Conflictf("room type '%v' already exists", updates["name"])
			}
			return nil, storeError(err, "room type")
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a room type that no room references.
func (s *RoomTypeService) Delete(ctx context.Context, id uint) error {
	db := s.DB.WithContext(ctx)
	var rt models.RoomType
	if err := db.First(&rt, id).Error; err != nil {
		return storeError(err, "room type")
	}
	var rooms int64
	if err := db.Model(&models.Room{}).Where("room_type_id = ?", id).Count(&rooms).Error; err != nil {
		return err
	}
	if rooms > 0 {
		return Conflictf("room type '%s' is used by %d rooms", rt.Name, rooms)
	}
	if err := db.Delete(&rt).Error; err != nil {
		return storeError(err, "room type")
	}
	return nil
}

func (s *RoomTypeService) Stats(ctx context.Context) (*models.RoomTypeStats, error) {
	db := s.DB.WithContext(ctx)
	var stats models.RoomTypeStats
	if err := db.Model(&models.RoomType{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.RoomType{}).Where("is_available = ?", true).Count(&stats.Available).Error; err != nil {
		return nil, err
	}
	stats.Unavailable = stats.Total - stats.Available
	return &stats, nil
}
