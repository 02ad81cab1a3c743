package domain

import "time"

type Restaurant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Address   string    `gorm:"size:500" json:"address"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Logo      string    `gorm:"size:1024" json:"logo"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DiningTable is one physical table in a restaurant's floor plan.
type DiningTable struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"size:120;not null;index" json:"name"`
	Seats        int         `gorm:"not null" json:"seats"`
	Location     string      `gorm:"size:255" json:"location"`
	Status       string      `gorm:"size:32;not null;default:AVAILABLE" json:"status"`
	Active       bool        `gorm:"not null;default:true" json:"active"`
	RestaurantID uint        `gorm:"index" json:"-"`
	Restaurant   *Restaurant `json:"restaurant,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
