package models

import "time"

type HousekeepingTask struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	RoomID     uint               `gorm:"column:room_id;index;not null" json:"roomId"`
	Task       string             `gorm:"type:varchar(255);not null" json:"task"`
	DueDate    time.Time          `gorm:"column:due_date;index;not null" json:"dueDate"`
	Status     HousekeepingStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	AssignedTo *uint              `gorm:"column:assigned_to;index" json:"assignedTo,omitempty"`
	Notes      string             `gorm:"type:text" json:"notes,omitempty"`

	CompletedAt *time.Time `gorm:"column:completed_at" json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Room     *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Assignee *User `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
}
