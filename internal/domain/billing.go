package domain

import "time"

type Invoice struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Code       string    `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Status     string    `gorm:"size:32;not null;default:UNPAID;index" json:"status"`
	Subtotal   float64   `gorm:"not null" json:"subtotal"`
	TaxRate    float64   `gorm:"not null" json:"taxRate"`
	GrandTotal float64   `gorm:"not null" json:"grandTotal"`
	OrderID    uint      `gorm:"index" json:"-"`
	Order      *Order    `json:"order,omitempty"`
	IssuedAt   time.Time `json:"issuedAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Receipt records one payment against an invoice. An invoice may settle
// across several receipts (split bills, partial card then cash).
type Receipt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Method    string    `gorm:"size:32;not null" json:"method"`
	Amount    float64   `gorm:"not null" json:"amount"`
	InvoiceID uint      `gorm:"index" json:"-"`
	Invoice   *Invoice  `json:"invoice,omitempty"`
	PaidAt    time.Time `json:"paidAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
