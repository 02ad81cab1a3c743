package domain

import (
	"math"
	"time"
)

type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Address   string    `gorm:"size:500" json:"address"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Email     string    `gorm:"size:255" json:"email"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Ingredient struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null;index" json:"name"`
	Unit       string    `gorm:"size:32;not null" json:"unit"`
	Price      float64   `gorm:"not null" json:"price"`
	Image      string    `gorm:"size:1024" json:"image"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	SupplierID uint      `gorm:"index" json:"-"`
	Supplier   *Supplier `json:"supplier,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Product struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	Name         string              `gorm:"size:255;not null;index" json:"name"`
	ShortDesc    string              `gorm:"size:500" json:"shortDesc"`
	DetailDesc   string              `gorm:"size:2000" json:"detailDesc"`
	SellingPrice float64             `gorm:"not null" json:"sellingPrice"`
	CostPrice    float64             `json:"costPrice"`
	Image        string              `gorm:"size:1024" json:"image"`
	Status       string              `gorm:"size:32;not null;default:ACTIVE" json:"status"`
	Active       bool                `gorm:"not null;default:true" json:"active"`
	RestaurantID uint                `gorm:"index" json:"-"`
	Restaurant   *Restaurant         `json:"restaurant,omitempty"`
	Composition  []ProductIngredient `json:"composition,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// ProductIngredient is one recipe row: how much of an ingredient goes into
// one unit of the product. Product cost is the sum over these rows.
type ProductIngredient struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	ProductID    uint        `gorm:"index;not null" json:"-"`
	IngredientID uint        `gorm:"index;not null" json:"-"`
	Ingredient   *Ingredient `json:"ingredient,omitempty"`
	Quantity     float64     `gorm:"not null" json:"quantity"`
}

// CompositionCost is the sum of quantity times current ingredient price over
// all recipe rows, rounded to two decimals. Rows without a loaded ingredient
// are skipped.
func CompositionCost(rows []ProductIngredient) float64 {
	total := 0.0
	for _, row := range rows {
		if row.Ingredient == nil {
			continue
		}
		total += row.Quantity * row.Ingredient.Price
	}
	return math.Round(total*100) / 100
}
