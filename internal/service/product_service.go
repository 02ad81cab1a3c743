package service

import (
	"context"
	"errors"

	"github.com/restofleet/pos-admin-api/internal/domain"
	"github.com/restofleet/pos-admin-api/internal/repository"
)

var (
	ErrCompositionEmptyRow = errors.New("composition rows need an ingredient and a positive quantity")
	ErrUnknownIngredient   = repository.ErrUnknownIngredient
)

type CompositionInput struct {
	IngredientID uint    `json:"ingredientId"`
	Quantity     float64 `json:"quantity"`
}

// ProductService layers recipe handling on top of the generic product
// resource: replacing a product's composition recomputes its cost price from
// current ingredient prices, atomically with the row replacement.
type ProductService struct {
	resource *ResourceService[domain.Product]
	repo     repository.ProductRepository
}

func NewProductService(resource *ResourceService[domain.Product], repo repository.ProductRepository) *ProductService {
	return &ProductService{resource: resource, repo: repo}
}

func (s *ProductService) GetWithComposition(ctx context.Context, id uint) (*domain.Product, error) {
	return s.repo.FindWithComposition(ctx, id)
}

func (s *ProductService) SetComposition(ctx context.Context, productID uint, inputs []CompositionInput) (*domain.Product, error) {
	rows := make([]domain.ProductIngredient, 0, len(inputs))
	for _, in := range inputs {
		if in.IngredientID == 0 || in.Quantity <= 0 {
			return nil, ErrCompositionEmptyRow
		}
		rows = append(rows, domain.ProductIngredient{IngredientID: in.IngredientID, Quantity: in.Quantity})
	}

	product, err := s.repo.ReplaceComposition(ctx, productID, rows)
	if err != nil {
		return nil, err
	}

	s.resource.InvalidateLists(ctx)
	return product, nil
}
