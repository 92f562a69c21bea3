package models

import (
	"time"

	"gorm.io/datatypes"
)

type MaintenanceTicket struct {
	ID       uint                `gorm:"primaryKey" json:"id"`
	RoomID   uint                `gorm:"column:room_id;index;not null" json:"roomId"`
	Issue    string              `gorm:"type:text;not null" json:"issue"`
	Priority MaintenancePriority `gorm:"type:varchar(10);index;not null" json:"priority"`
	Status   MaintenanceStatus   `gorm:"type:varchar(20);index;not null" json:"status"`

	ReportedBy uint  `gorm:"column:reported_by;index;not null" json:"reportedBy"`
	AssignedTo *uint `gorm:"column:assigned_to;index" json:"assignedTo,omitempty"`

	ResolvedAt    *time.Time                  `gorm:"column:resolved_at" json:"resolvedAt,omitempty"`
	Notes         string                      `gorm:"type:text" json:"notes,omitempty"`
	EstimatedCost float64                     `gorm:"column:estimated_cost" json:"estimatedCost"`
	ActualCost    float64                     `gorm:"column:actual_cost" json:"actualCost"`
	Images        datatypes.JSONSlice[string] `gorm:"column:images" json:"images"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Room     *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Reporter *User `gorm:"foreignKey:ReportedBy" json:"reporter,omitempty"`
	Assignee *User `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
}
