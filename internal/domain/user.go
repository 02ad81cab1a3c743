package domain

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Avatar    string    `gorm:"size:1024" json:"avatar"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	RoleID    uint      `gorm:"index" json:"-"`
	Role      *Role     `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Credential holds the local password hash, kept apart from User so the
// profile payload can never leak it.
type Credential struct {
	UserID       uint   `gorm:"primaryKey" json:"-"`
	PasswordHash string `gorm:"size:512;not null" json:"-"`
}
