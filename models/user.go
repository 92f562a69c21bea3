package models

import "time"

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(50);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"column:password_hash;not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);index;not null" json:"role"`
	IsActive bool   `gorm:"column:is_active;not null" json:"isActive"`
	Phone    string `gorm:"type:varchar(10)" json:"phone,omitempty"`
	Address  string `gorm:"type:varchar(200)" json:"address,omitempty"`

	LoginAttempts int        `gorm:"column:login_attempts;not null" json:"-"`
	LockUntil     *time.Time `gorm:"column:lock_until" json:"-"`
	LastLogin     *time.Time `gorm:"column:last_login" json:"lastLogin,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsLocked reports whether the account is inside a lockout window at now.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}
