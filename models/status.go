package models

// RoomStatus is the operational state of a room.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"
)

func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomCleaning, RoomMaintenance:
		return true
	}
	return false
}

// BookingStatus is the reservation lifecycle state.
type BookingStatus string

const (
	BookingReserved   BookingStatus = "reserved"
	BookingCheckedIn  BookingStatus = "checked-in"
	BookingCheckedOut BookingStatus = "checked-out"
	BookingCancelled  BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingReserved:   {BookingCheckedIn, BookingCancelled},
	BookingCheckedIn:  {BookingCheckedOut, BookingCancelled},
	BookingCheckedOut: {},
	BookingCancelled:  {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransitionTo reports whether the edge s -> next is allowed.
// Self edges are not allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// HoldsRoom reports whether a booking in this state blocks its room for its dates.
func (s BookingStatus) HoldsRoom() bool {
	return s == BookingReserved || s == BookingCheckedIn
}

// ActiveBookingStatuses are the statuses considered by the overlap query.
var ActiveBookingStatuses = []BookingStatus{BookingReserved, BookingCheckedIn}

// HousekeepingStatus is the state of a housekeeping task.
type HousekeepingStatus string

const (
	TaskPending    HousekeepingStatus = "pending"
	TaskInProgress HousekeepingStatus = "in-progress"
	TaskCompleted  HousekeepingStatus = "completed"
)

var housekeepingTransitions = map[HousekeepingStatus][]HousekeepingStatus{
	TaskPending:    {TaskInProgress, TaskCompleted},
	TaskInProgress: {TaskPending, TaskCompleted},
	TaskCompleted:  {},
}

func (s HousekeepingStatus) IsValid() bool {
	_, ok := housekeepingTransitions[s]
	return ok
}

// CanTransitionTo allows self edges so a terminal status can be re-set.
func (s HousekeepingStatus) CanTransitionTo(next HousekeepingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range housekeepingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MaintenanceStatus is the state of a maintenance ticket.
type MaintenanceStatus string

const (
	TicketOpen       MaintenanceStatus = "open"
	TicketInProgress MaintenanceStatus = "in-progress"
	TicketResolved   MaintenanceStatus = "resolved"
	TicketCancelled  MaintenanceStatus = "cancelled"
)

var maintenanceTransitions = map[MaintenanceStatus][]MaintenanceStatus{
	TicketOpen:       {TicketInProgress, TicketResolved, TicketCancelled},
	TicketInProgress: {TicketOpen, TicketResolved, TicketCancelled},
	TicketResolved:   {},
	TicketCancelled:  {},
}

func (s MaintenanceStatus) IsValid() bool {
	_, ok := maintenanceTransitions[s]
	return ok
}

func (s MaintenanceStatus) CanTransitionTo(next MaintenanceStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range maintenanceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MaintenancePriority ranks a ticket. High priority takes the room out of service.
type MaintenancePriority string

const (
	PriorityLow    MaintenancePriority = "low"
	PriorityMedium MaintenancePriority = "medium"
	PriorityHigh   MaintenancePriority = "high"
)

func (p MaintenancePriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Role is a user's access role.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleManager      Role = "manager"
	RoleReceptionist Role = "receptionist"
	RoleHousekeeping Role = "housekeeping"
	RoleGuest        Role = "guest"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleReceptionist, RoleHousekeeping, RoleGuest:
		return true
	}
	return false
}

// IsStaff reports whether the role belongs to front-office staff.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleReceptionist
}

// StaffRoles is the role gate shared by most back-office endpoints.
var StaffRoles = []Role{RoleAdmin, RoleManager, RoleReceptionist}
