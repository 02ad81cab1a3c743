package domain

import "time"

type Order struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Code      string       `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Status    string       `gorm:"size:32;not null;default:PENDING;index" json:"status"`
	Note      string       `gorm:"size:500" json:"note"`
	Total     float64      `gorm:"not null" json:"total"`
	TableID   uint         `gorm:"index" json:"-"`
	Table     *DiningTable `json:"table,omitempty"`
	UserID    uint         `gorm:"index" json:"-"`
	User      *User        `json:"user,omitempty"`
	Items     []OrderItem  `json:"items,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `gorm:"index;not null" json:"-"`
	ProductID uint     `gorm:"index;not null" json:"-"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `gorm:"not null" json:"quantity"`
	UnitPrice float64  `gorm:"not null" json:"unitPrice"`
}
