package services

import (
	"context"
	"testing"
	"time"

	"hotel-backoffice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func taskFixture(t *testing.T) (*gorm.DB, *models.Room, *models.User) {
	t.Helper()
	db := newTestDB(t)
	rt := seedRoomType(t, db, "Standard", 80)
	room := seedRoom(t, db, "101", rt, 80)
	staff := seedUser(t, db, "hk@example.com", models.RoleHousekeeping)
	return db, room, staff
}

func TestHousekeepingCreateAndList(t *testing.T) {
	db, room, staff := taskFixture(t)
	svc := NewHousekeepingService(db)
	ctx := context.Background()

	later, err := svc.Create(ctx, CreateTaskInput{RoomID: room.ID, Task: "Deep clean", DueDate: day("2025-03-02").Add(9 * time.Hour)})
	require.NoError(t, err)
	earlier, err := svc.Create(ctx, CreateTaskInput{RoomID: room.ID, Task: "Towels", DueDate: day("2025-03-01").Add(15 * time.Hour), AssignedTo: &staff.ID})
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, earlier.Status)
	require.NotNil(t, earlier.Assignee)

	all, err := svc.List(ctx, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, earlier.ID, all[0].ID)
	assert.Equal(t, later.ID, all[1].ID)

	d := day("2025-03-02")
	onDay, err := svc.List(ctx, TaskFilter{Date: &d})
	require.NoError(t, err)
	require.Len(t, onDay, 1)
	assert.Equal(t, later.ID, onDay[0].ID)

	missing := uint(999)
	_, err = svc.Create(ctx, CreateTaskInput{RoomID: room.ID, Task: "x", DueDate: d, AssignedTo: &missing})
	assert.True(t, IsKind(err, KindNotFound))
	_, err = svc.Create(ctx, CreateTaskInput{RoomID: room.ID, DueDate: d})
	assert.True(t, IsKind(err, KindValidation))
	_, err = svc.Create(ctx, CreateTaskInput{RoomID: 999, Task: "x", DueDate: d})
	assert.True(t, IsKind(err, KindNotFound))
}

func TestHousekeepingCompletionFreesRoom(t *testing.T) {
	db, room, _ := taskFixture(t)
	first := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewHousekeepingService(db, WithClock(fixedClock(first)))
	ctx := context.Background()
	require.NoError(t, db.Model(room).Update("status", models.RoomCleaning).Error)

	task, err := svc.Create(ctx, CreateTaskInput{RoomID: room.ID, Task: "Turnover", DueDate: first})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, task.ID, TaskStatusUpdate{Status: models.TaskInProgress})
	require.NoError(t, err)
	assert.Equal(t, models.RoomCleaning, roomStatus(t, db, room.ID))

	notes := "done"
	done, err := svc.UpdateStatus(ctx, task.ID, TaskStatusUpdate{Status: models.TaskCompleted, Notes: &notes})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, first.Equal(*done.CompletedAt))
	assert.Equal(t, "done", done.Notes)
	assert.Equal(t, models.RoomAvailable, roomStatus(t, db, room.ID))

	svc.now = fixedClock(first.Add(time.Hour))
	again, err := svc.UpdateStatus(ctx, task.ID, TaskStatusUpdate{Status: models.TaskCompleted})
	require.NoError(t, err)
	assert.True(t, first.Equal(*again.CompletedAt))

	corrected := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)
	again, err = svc.UpdateStatus(ctx, task.ID, TaskStatusUpdate{Status: models.TaskCompleted, CompletedAt: &corrected})
	require.NoError(t, err)
	assert.True(t, corrected.Equal(*again.CompletedAt))
	stored, err := svc.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, corrected.Equal(*stored.CompletedAt))

	_, err = svc.UpdateStatus(ctx, task.ID, TaskStatusUpdate{Status: models.TaskPending})
	assert.True(t, IsKind(err, KindInvalidTransition))
	_, err = svc.UpdateStatus(ctx, task.ID, TaskStatusUpdate{Status: "bogus"})
	assert.True(t, IsKind(err, KindValidation))

	require.NoError(t, svc.Delete(ctx, task.ID))
	assert.True(t, IsKind(svc.Delete(ctx, task.ID), KindNotFound))
}

func TestMaintenanceHighPriorityTakesRoomOutOfService(t *testing.T) {
	db, room, staff := taskFixture(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewMaintenanceService(db, WithClock(fixedClock(now)))
	ctx := context.Background()

	low, err := svc.Create(ctx, CreateTicketInput{RoomID: room.ID, Issue: "Squeaky door", ReportedBy: staff.ID})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, low.Priority)
	assert.Equal(t, models.TicketOpen, low.Status)
	assert.Equal(t, models.RoomAvailable, roomStatus(t, db, room.ID))

	high, err := svc.Create(ctx, CreateTicketInput{RoomID: room.ID, Issue: "Leak", Priority: models.PriorityHigh,
		ReportedBy: staff.ID, Images: []string{"https://img.example.com/leak.jpg"}, EstimatedCost: 120})
	require.NoError(t, err)
	assert.Equal(t, models.RoomMaintenance, roomStatus(t, db, room.ID))
	assert.Equal(t, []string{"https://img.example.com/leak.jpg"}, []string(high.Images))

	cost := 99.5
	resolved, err := svc.UpdateStatus(ctx, high.ID, TicketStatusUpdate{Status: models.TicketResolved, ActualCost: &cost, AssignedTo: &staff.ID})
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	assert.True(t, now.Equal(*resolved.ResolvedAt))
	assert.Equal(t, 99.5, resolved.ActualCost)
	assert.Equal(t, models.RoomAvailable, roomStatus(t, db, room.ID))

	svc.now = fixedClock(now.Add(time.Hour))
	again, err := svc.UpdateStatus(ctx, high.ID, TicketStatusUpdate{Status: models.TicketResolved})
	require.NoError(t, err)
	assert.True(t, now.Equal(*again.ResolvedAt))

	corrected := time.Date(2025, 4, 1, 5, 0, 0, 0, time.UTC)
	again, err = svc.UpdateStatus(ctx, high.ID, TicketStatusUpdate{Status: models.TicketResolved, ResolvedAt: &corrected})
	require.NoError(t, err)
	assert.True(t, corrected.Equal(*again.ResolvedAt))
	stored, err := svc.Get(ctx, high.ID)
	require.NoError(t, err)
	assert.True(t, corrected.Equal(*stored.ResolvedAt))

	_, err = svc.UpdateStatus(ctx, high.ID, TicketStatusUpdate{Status: models.TicketOpen})
	assert.True(t, IsKind(err, KindInvalidTransition))

	_, err = svc.Create(ctx, CreateTicketInput{RoomID: room.ID, Issue: "x", Priority: "urgent", ReportedBy: staff.ID})
	assert.True(t, IsKind(err, KindValidation))
	_, err = svc.Create(ctx, CreateTicketInput{RoomID: room.ID, Issue: "x"})
	assert.True(t, IsKind(err, KindValidation))
}

func TestMaintenanceListing(t *testing.T) {
	db, room, staff := taskFixture(t)
	svc := NewMaintenanceService(db)
	ctx := context.Background()
	rt := seedRoomType(t, db, "Suite", 200)
	other := seedRoom(t, db, "901", rt, 200)

	a, err := svc.Create(ctx, CreateTicketInput{RoomID: room.ID, Issue: "Bulb", Priority: models.PriorityLow, ReportedBy: staff.ID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateTicketInput{RoomID: other.ID, Issue: "AC", Priority: models.PriorityHigh, ReportedBy: staff.ID})
	require.NoError(t, err)

	lows, err := svc.List(ctx, TicketFilter{Priority: models.PriorityLow})
	require.NoError(t, err)
	require.Len(t, lows, 1)
	assert.Equal(t, a.ID, lows[0].ID)

	open, err := svc.List(ctx, TicketFilter{Status: models.TicketOpen})
	require.NoError(t, err)
	assert.Len(t, open, 2)

	forRoom, err := svc.ListByRoom(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, forRoom, 1)
	assert.Equal(t, "Bulb", forRoom[0].Issue)

	_, err = svc.ListByRoom(ctx, 999)
	assert.True(t, IsKind(err, KindNotFound))

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.Get(ctx, a.ID)
	assert.True(t, IsKind(err, KindNotFound))
}
