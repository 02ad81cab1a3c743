package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/restofleet/pos-admin-api/internal/http/response"
	"github.com/restofleet/pos-admin-api/internal/observability"
	"github.com/restofleet/pos-admin-api/internal/repository"
	"github.com/restofleet/pos-admin-api/internal/service"
)

// ProductHandler adds the recipe operations on top of the generic product
// resource routes.
type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) GetComposition(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return
	}
	product, err := h.products.GetWithComposition(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load product", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, product)
}

// SetComposition replaces a product's recipe and returns the product with its
// recomputed cost price.
func (h *ProductHandler) SetComposition(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return
	}
	var body struct {
		Composition []service.CompositionInput `json:"composition"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	product, err := h.products.SetComposition(r.Context(), id, body.Composition)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCompositionEmptyRow), errors.Is(err, service.ErrUnknownIngredient):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		case errors.Is(err, repository.ErrNotFound):
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to update composition", nil)
		}
		return
	}

	actorID, _ := actorIDFromRequest(r)
	observability.Audit(r, "admin.product.composition.updated", "product_id", id, "rows", len(product.Composition), "cost_price", product.CostPrice, "actor_user_id", actorID)
	response.JSON(w, r, http.StatusOK, product)
}
