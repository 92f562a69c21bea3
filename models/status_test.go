package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingTransitions(t *testing.T) {
	all := []BookingStatus{BookingReserved, BookingCheckedIn, BookingCheckedOut, BookingCancelled}
	allowed := map[[2]BookingStatus]bool{
		{BookingReserved, BookingCheckedIn}:   true,
		{BookingReserved, BookingCancelled}:   true,
		{BookingCheckedIn, BookingCheckedOut}: true,
		{BookingCheckedIn, BookingCancelled}:  true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]BookingStatus{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.False(t, BookingStatus("pending").IsValid())
}

func TestBookingHoldsRoom(t *testing.T) {
	assert.True(t, BookingReserved.HoldsRoom())
	assert.True(t, BookingCheckedIn.HoldsRoom())
	assert.False(t, BookingCheckedOut.HoldsRoom())
	assert.False(t, BookingCancelled.HoldsRoom())
}

func TestHousekeepingTransitions(t *testing.T) {
	assert.True(t, TaskPending.CanTransitionTo(TaskInProgress))
	assert.True(t, TaskPending.CanTransitionTo(TaskCompleted))
	assert.True(t, TaskInProgress.CanTransitionTo(TaskPending))
	assert.True(t, TaskCompleted.CanTransitionTo(TaskCompleted))
	assert.False(t, TaskCompleted.CanTransitionTo(TaskPending))
	assert.False(t, HousekeepingStatus("done").IsValid())
}

func TestMaintenanceTransitions(t *testing.T) {
	assert.True(t, TicketOpen.CanTransitionTo(TicketResolved))
	assert.True(t, TicketInProgress.CanTransitionTo(TicketCancelled))
	assert.True(t, TicketResolved.CanTransitionTo(TicketResolved))
	assert.False(t, TicketResolved.CanTransitionTo(TicketOpen))
	assert.False(t, TicketCancelled.CanTransitionTo(TicketInProgress))
}

func TestEnums(t *testing.T) {
	assert.True(t, RoomCleaning.IsValid())
	assert.False(t, RoomStatus("dirty").IsValid())
	assert.True(t, PriorityHigh.IsValid())
	assert.False(t, MaintenancePriority("urgent").IsValid())
	assert.True(t, RoleHousekeeping.IsValid())
	assert.False(t, Role("owner").IsValid())
	assert.True(t, RoleReceptionist.IsStaff())
	assert.False(t, RoleHousekeeping.IsStaff())
}
