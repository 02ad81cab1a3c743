package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/restofleet/pos-admin-api/internal/domain"
	"github.com/restofleet/pos-admin-api/internal/observability"
)

// ErrUnknownIngredient reports a composition row referencing an ingredient
// that does not exist. The replacement rolls back when it is returned.
var ErrUnknownIngredient = errors.New("composition references an unknown ingredient")

// ProductRepository extends the generic resource access with recipe handling:
// a product's composition rows are replaced as a unit, never patched row by row.
type ProductRepository interface {
	FindWithComposition(ctx context.Context, id uint) (*domain.Product, error)
	ReplaceComposition(ctx context.Context, productID uint, rows []domain.ProductIngredient) (*domain.Product, error)
}

type GormProductRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindWithComposition(ctx context.Context, id uint) (*domain.Product, error) {
	defer observeProductOp(ctx, "find_with_composition", time.Now())
	var p domain.Product
	err := r.db.WithContext(ctx).
		Preload("Composition").
		Preload("Composition.Ingredient").
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ReplaceComposition swaps a product's recipe rows and recomputes its cost
// price in a single transaction. Every row must reference an existing
// ingredient; otherwise nothing changes and ErrUnknownIngredient is returned.
func (r *GormProductRepository) ReplaceComposition(ctx context.Context, productID uint, rows []domain.ProductIngredient) (*domain.Product, error) {
	defer observeProductOp(ctx, "replace_composition", time.Now())
	var p domain.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		byID := make(map[uint]*domain.Ingredient, len(rows))
		if len(rows) > 0 {
			ids := make([]uint, 0, len(rows))
			for _, row := range rows {
				ids = append(ids, row.IngredientID)
			}
			var ingredients []domain.Ingredient
			if err := tx.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
				return err
			}
			for i := range ingredients {
				byID[ingredients[i].ID] = &ingredients[i]
			}
		}
		for i := range rows {
			ing, ok := byID[rows[i].IngredientID]
			if !ok {
				return fmt.Errorf("%w: ingredient %d", ErrUnknownIngredient, rows[i].IngredientID)
			}
			rows[i].ProductID = productID
			rows[i].Ingredient = ing
		}

		if err := tx.Where("product_id = ?", productID).Delete(&domain.ProductIngredient{}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
				return err
			}
		}

		cost := domain.CompositionCost(rows)
		if err := tx.Model(&domain.Product{}).Where("id = ?", productID).Update("cost_price", cost).Error; err != nil {
			return err
		}
		p.CostPrice = cost
		p.Composition = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func observeProductOp(ctx context.Context, op string, start time.Time) {
	observability.RecordRepositoryOperation(ctx, "PRODUCTS", op, time.Since(start))
}
