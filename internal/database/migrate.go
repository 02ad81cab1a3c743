package database

import (
	"github.com/restofleet/pos-admin-api/internal/domain"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Permission{},
		&domain.Role{},
		&domain.User{},
		&domain.Credential{},
		&domain.Restaurant{},
		&domain.DiningTable{},
		&domain.Supplier{},
		&domain.Ingredient{},
		&domain.Product{},
		&domain.ProductIngredient{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Invoice{},
		&domain.Receipt{},
		&domain.Shift{},
		&domain.Client{},
		&domain.Review{},
		&domain.Feedback{},
	)
}
