package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel-backoffice/models"

	"gorm.io/gorm"
)

type MaintenanceService struct {
	DB *gorm.DB
	deps
}

func NewMaintenanceService(db *gorm.DB, opts ...Option) *MaintenanceService {
	return &MaintenanceService{DB: db, deps: newDeps(opts)}
}

type CreateTicketInput struct {
	RoomID        uint
	Issue         string
	Priority      models.MaintenancePriority
	ReportedBy    uint
	AssignedTo    *uint
	EstimatedCost float64
	Images        []string
	Notes         string
}

type TicketFilter struct {
	Status   models.MaintenanceStatus
	Priority models.MaintenancePriority
}

type TicketStatusUpdate struct {
	Status     models.MaintenanceStatus
	AssignedTo *uint
	Notes      *string
	ActualCost *float64
	ResolvedAt *time.Time
}

// Create opens a ticket. A high-priority ticket takes the room out of service immediately.
func (s *MaintenanceService) Create(ctx context.Context, in CreateTicketInput) (*models.MaintenanceTicket, error) {
	issue := strings.TrimSpace(in.Issue)
	switch {
	case in.RoomID == 0:
		return nil, Validationf("roomId is required")
	case issue == "":
		return nil, Validationf("issue is required")
	case in.ReportedBy == 0:
		return nil, Validationf("reportedBy is required")
	case in.EstimatedCost < 0:
		return nil, Validationf("estimatedCost cannot be negative")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.IsValid() {
		return nil, Validationf("invalid priority %q", in.Priority)
	}

	ticket := models.MaintenanceTicket{
		RoomID:        in.RoomID,
		Issue:         issue,
		Priority:      in.Priority,
		Status:        models.TicketOpen,
		ReportedBy:    in.ReportedBy,
		AssignedTo:    in.AssignedTo,
		EstimatedCost: in.EstimatedCost,
		Images:        cleanAmenities(in.Images),
		Notes:         strings.TrimSpace(in.Notes),
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, in.RoomID).Error; err != nil {
			return storeError(err, "room")
		}
		if err := ensureUser(tx, in.ReportedBy, "reporter"); err != nil {
			return err
		}
		if in.AssignedTo != nil {
			if err := ensureUser(tx, *in.AssignedTo, "assignee"); err != nil {
				return err
			}
		}
		if err := tx.Create(&ticket).Error; err != nil {
			return storeError(err, "maintenance ticket")
		}
		if ticket.Priority == models.PriorityHigh {
			cause := fmt.Sprintf("high priority ticket %d", ticket.ID)
			return cascadeRoomStatus(tx, s.log, room.ID, models.RoomMaintenance, cause)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("ticket_id", ticket.ID).
		Uint("room_id", ticket.RoomID).
		Str("priority", string(ticket.Priority)).
		Msg("maintenance ticket opened")
	return s.Get(ctx, ticket.ID)
}

func (s *MaintenanceService) Get(ctx context.Context, id uint) (*models.MaintenanceTicket, error) {
	var t models.MaintenanceTicket
	if err := s.DB.WithContext(ctx).
		Preload("Room").Preload("Reporter").Preload("Assignee").
		First(&t, id).Error; err != nil {
		return nil, storeError(err, "maintenance ticket")
	}
	return &t, nil
}

// List returns tickets newest first.
func (s *MaintenanceService) List(ctx context.Context, f TicketFilter) ([]models.MaintenanceTicket, error) {
	q := s.DB.WithContext(ctx).Preload("Room").Preload("Reporter").Preload("Assignee")
	if f.Status != "" {
		if !f.Status.IsValid() {
			return nil, Validationf("invalid ticket status %q", f.Status)
		}
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		if !f.Priority.IsValid() {
			return nil, Validationf("invalid priority %q", f.Priority)
		}
		q = q.Where("priority = ?", f.Priority)
	}
	tickets := []models.MaintenanceTicket{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("list maintenance tickets: %w", err)
	}
	return tickets, nil
}

func (s *MaintenanceService) ListByRoom(ctx context.Context, roomID uint) ([]models.MaintenanceTicket, error) {
	db := s.DB.WithContext(ctx)
	var room models.Room
	if err := db.First(&room, roomID).Error; err != nil {
		return nil, storeError(err, "room")
	}
	tickets := []models.MaintenanceTicket{}
	if err := db.Preload("Reporter").Preload("Assignee").
		Where("room_id = ?", roomID).
		Order("created_at DESC").Order("id DESC").
		Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("list room tickets: %w", err)
	}
	return tickets, nil
}

// UpdateStatus moves a ticket through its table. Resolving a ticket returns the room to service.
func (s *MaintenanceService) UpdateStatus(ctx context.Context, id uint, in TicketStatusUpdate) (*models.MaintenanceTicket, error) {
	if !in.Status.IsValid() {
		return nil, Validationf("invalid ticket status %q", in.Status)
	}
	if in.ActualCost != nil && *in.ActualCost < 0 {
		return nil, Validationf("actualCost cannot be negative")
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.MaintenanceTicket
		if err := tx.First(&t, id).Error; err != nil {
			return storeError(err, "maintenance ticket")
		}
		from := t.Status
		if !from.CanTransitionTo(in.Status) {
			return InvalidTransitionf("cannot change ticket from %s to %s", t.Status, in.Status)
		}

		updates := map[string]interface{}{"status": in.Status}
		if in.AssignedTo != nil {
			if err := ensureUser(tx, *in.AssignedTo, "assignee"); err != nil {
				return err
			}
			updates["assigned_to"] = *in.AssignedTo
		}
		if in.Notes != nil {
			updates["notes"] = strings.TrimSpace(*in.Notes)
		}
		if in.ActualCost != nil {
			updates["actual_cost"] = *in.ActualCost
		}
		if in.Status == models.TicketResolved {
			switch {
			case in.ResolvedAt != nil:
				updates["resolved_at"] = in.ResolvedAt.UTC()
			case t.ResolvedAt == nil:
				updates["resolved_at"] = s.now().UTC()
			}
		}
		if err := tx.Model(&t).Updates(updates).Error; err != nil {
			return fmt.Errorf("update ticket status: %w", err)
		}

		if in.Status == models.TicketResolved && from != models.TicketResolved {
			cause := fmt.Sprintf("maintenance ticket %d resolved", t.ID)
			return cascadeRoomStatus(tx, s.log, t.RoomID, models.RoomAvailable, cause)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *MaintenanceService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.MaintenanceTicket{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete maintenance ticket: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFoundf("maintenance ticket not found")
	}
	return nil
}
