package domain

import "time"

// Permission is a single gateable API surface: one HTTP method on one path
// template, grouped under a console module (TABLES, PRODUCTS, ...). Path
// templates may contain {id}-style placeholders matched structurally.
type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Method    string    `gorm:"size:16;not null;uniqueIndex:idx_permissions_triple" json:"method"`
	APIPath   string    `gorm:"size:255;not null;uniqueIndex:idx_permissions_triple" json:"apiPath"`
	Module    string    `gorm:"size:64;not null;uniqueIndex:idx_permissions_triple" json:"module"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"uniqueIndex;size:120;not null" json:"name"`
	Description string       `gorm:"size:500" json:"description"`
	Active      bool         `gorm:"not null;default:true" json:"active"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
