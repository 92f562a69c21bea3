package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/utils"

	"gorm.io/gorm"
)

type HousekeepingService struct {
	DB *gorm.DB
	deps
}

func NewHousekeepingService(db *gorm.DB, opts ...Option) *HousekeepingService {
	return &HousekeepingService{DB: db, deps: newDeps(opts)}
}

type CreateTaskInput struct {
	RoomID     uint
	Task       string
	DueDate    time.Time
	AssignedTo *uint
	Notes      string
}

type TaskFilter struct {
	Status models.HousekeepingStatus
	Date   *time.Time
}

type TaskStatusUpdate struct {
	Status      models.HousekeepingStatus
	CompletedAt *time.Time
	Notes       *string
}

func ensureUser(db *gorm.DB, id uint, what string) error {
	var n int64
	if err := db.Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return NotFoundf("%s not found", what)
	}
	return nil
}

func (s *HousekeepingService) Create(ctx context.Context, in CreateTaskInput) (*models.HousekeepingTask, error) {
	task := strings.TrimSpace(in.Task)
	switch {
	case in.RoomID == 0:
		return nil, Validationf("roomId is required")
	case task == "":
		return nil, Validationf("task is required")
	case in.DueDate.IsZero():
		return nil, Validationf("dueDate is required")
	}

	db := s.DB.WithContext(ctx)
	var room models.Room
	if err := db.First(&room, in.RoomID).Error; err != nil {
		return nil, storeError(err, "room")
	}
	if in.AssignedTo != nil {
		if err := ensureUser(db, *in.AssignedTo, "assignee"); err != nil {
			return nil, err
		}
	}

	t := models.HousekeepingTask{
		RoomID:     room.ID,
		Task:       task,
		DueDate:    in.DueDate.UTC(),
		Status:     models.TaskPending,
		AssignedTo: in.AssignedTo,
		Notes:      strings.TrimSpace(in.Notes),
	}
	if err := db.Create(&t).Error; err != nil {
		return nil, storeError(err, "housekeeping task")
	}
	s.log.Info().Uint("task_id", t.ID).Uint("room_id", t.RoomID).Msg("housekeeping task created")
	return s.Get(ctx, t.ID)
}

func (s *HousekeepingService) Get(ctx context.Context, id uint) (*models.HousekeepingTask, error) {
	var t models.HousekeepingTask
	if err := s.DB.WithContext(ctx).Preload("Room").Preload("Assignee").First(&t, id).Error; err != nil {
		return nil, storeError(err, "housekeeping task")
	}
	return &t, nil
}

// List returns tasks by due date, earliest first. Date matches the whole UTC calendar day.
func (s *HousekeepingService) List(ctx context.Context, f TaskFilter) ([]models.HousekeepingTask, error) {
	q := s.DB.WithContext(ctx).Preload("Room").Preload("Assignee")
	if f.Status != "" {
		if !f.Status.IsValid() {
			return nil, Validationf("invalid task status %q", f.Status)
		}
		q = q.Where("status = ?", f.Status)
	}
	if f.Date != nil {
		start, end := utils.DayBounds(*f.Date)
		q = q.Where("due_date >= ? AND due_date < ?", start, end)
	}
	tasks := []models.HousekeepingTask{}
	if err := q.Order("due_date ASC").Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list housekeeping tasks: %w", err)
	}
	return tasks, nil
}

// UpdateStatus moves a task through its table. Completing a task frees the room.
func (s *HousekeepingService) UpdateStatus(ctx context.Context, id uint, in TaskStatusUpdate) (*models.HousekeepingTask, error) {
	if !in.Status.IsValid() {
		return nil, Validationf("invalid task status %q", in.Status)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.HousekeepingTask
		if err := tx.First(&t, id).Error; err != nil {
			return storeError(err, "housekeeping task")
		}
		from := t.Status
		if !from.CanTransitionTo(in.Status) {
			return InvalidTransitionf("cannot change task from %s to %s", t.Status, in.Status)
		}

		updates := map[string]interface{}{"status": in.Status}
		if in.Notes != nil {
			updates["notes"] = strings.TrimSpace(*in.Notes)
		}
		if in.Status == models.TaskCompleted {
			switch {
			case in.CompletedAt != nil:
				updates["completed_at"] = in.CompletedAt.UTC()
			case t.CompletedAt == nil:
				updates["completed_at"] = s.now().UTC()
			}
		}
		if err := tx.Model(&t).Updates(updates).Error; err != nil {
			return fmt.Errorf("update task status: %w", err)
		}

		if in.Status == models.TaskCompleted && from != models.TaskCompleted {
			cause := fmt.Sprintf("housekeeping task %d completed", t.ID)
			return cascadeRoomStatus(tx, s.log, t.RoomID, models.RoomAvailable, cause)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *HousekeepingService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.HousekeepingTask{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete housekeeping task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFoundf("housekeeping task not found")
	}
	return nil
}
