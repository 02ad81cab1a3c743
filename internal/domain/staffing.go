package domain

import "time"

// Shift is one scheduled work block for a staff member.
type Shift struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	StartsAt  time.Time `gorm:"not null;index" json:"startsAt"`
	EndsAt    time.Time `gorm:"not null" json:"endsAt"`
	Status    string    `gorm:"size:32;not null;default:SCHEDULED;index" json:"status"`
	Note      string    `gorm:"size:500" json:"note"`
	UserID    uint      `gorm:"index" json:"-"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
