package domain

import "time"

type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;index" json:"name"`
	Email     string    `gorm:"size:255;index" json:"email"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Address   string    `gorm:"size:500" json:"address"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Review struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Rating    int      `gorm:"not null;index" json:"rating"`
	Comment   string   `gorm:"size:2000" json:"comment"`
	Status    string   `gorm:"size:32;not null;default:PENDING;index" json:"status"`
	ClientID  uint     `gorm:"index" json:"-"`
	Client    *Client  `json:"client,omitempty"`
	ProductID uint     `gorm:"index" json:"-"`
	Product   *Product `json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Feedback is free-form visitor feedback, unlike Review not tied to a
// product.
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Subject   string    `gorm:"size:255;not null" json:"subject"`
	Message   string    `gorm:"size:4000;not null" json:"message"`
	Status    string    `gorm:"size:32;not null;default:NEW;index" json:"status"`
	ClientID  uint      `gorm:"index" json:"-"`
	Client    *Client   `json:"client,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
