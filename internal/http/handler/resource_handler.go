package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/restofleet/pos-admin-api/internal/http/response"
	"github.com/restofleet/pos-admin-api/internal/listquery"
	"github.com/restofleet/pos-admin-api/internal/observability"
	"github.com/restofleet/pos-admin-api/internal/repository"
	"github.com/restofleet/pos-admin-api/internal/service"
)

// Binder decodes and validates an upsert payload into the module's entity.
// Binding failures are client errors and never reach the repository.
type Binder[E any] func(r *http.Request) (*E, error)

// ResourceHandler serves the four standard operations of one admin module:
// paginated list, create, update, delete. Every module shares this handler;
// what varies per module lives in the service config and the binder.
type ResourceHandler[E any] struct {
	svc  *service.ResourceService[E]
	bind Binder[E]
	id   func(*E) uint
}

func NewResourceHandler[E any](svc *service.ResourceService[E], bind Binder[E], id func(*E) uint) *ResourceHandler[E] {
	return &ResourceHandler[E]{svc: svc, bind: bind, id: id}
}

func (h *ResourceHandler[E]) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cfg := h.svc.Config()

	req, err := listquery.ParseValues(r.URL.Query(), cfg.ParseOptions())
	if err != nil {
		observability.RecordListRequestDuration(r.Context(), cfg.Namespace, "bad_request", time.Since(start))
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	observability.RecordListPageSize(r.Context(), cfg.Namespace, req.Size)

	payload, err := h.svc.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, listquery.ErrUnknownField) {
			observability.RecordListRequestDuration(r.Context(), cfg.Namespace, "bad_request", time.Since(start))
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
			return
		}
		observability.RecordListRequestDuration(r.Context(), cfg.Namespace, "error", time.Since(start))
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list "+cfg.Namespace, nil)
		return
	}
	observability.RecordListRequestDuration(r.Context(), cfg.Namespace, "success", time.Since(start))
	response.JSON(w, r, http.StatusOK, payload)
}

func (h *ResourceHandler[E]) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return
	}
	entity, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "record not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load record", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, entity)
}

func (h *ResourceHandler[E]) Create(w http.ResponseWriter, r *http.Request) {
	cfg := h.svc.Config()
	entity, err := h.bind(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	if h.id(entity) != 0 {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "id must not be set on create", nil)
		return
	}
	if err := h.svc.Create(r.Context(), entity); err != nil {
		if isConflictError(err) {
			response.Error(w, r, http.StatusConflict, "CONFLICT", "record already exists", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create record", nil)
		return
	}
	actorID, _ := actorIDFromRequest(r)
	observability.Audit(r, "admin.resource.created", "module", cfg.Module, "record_id", h.id(entity), "actor_user_id", actorID)
	response.JSON(w, r, http.StatusCreated, entity)
}

func (h *ResourceHandler[E]) Update(w http.ResponseWriter, r *http.Request) {
	cfg := h.svc.Config()
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return
	}
	entity, err := h.bind(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	if bodyID := h.id(entity); bodyID != 0 && bodyID != id {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "body id does not match path id", nil)
		return
	}
	if err := h.svc.Update(r.Context(), id, entity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "record not found", nil)
			return
		}
		if isConflictError(err) {
			response.Error(w, r, http.StatusConflict, "CONFLICT", "record already exists", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to update record", nil)
		return
	}
	updated, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load record", nil)
		return
	}
	actorID, _ := actorIDFromRequest(r)
	observability.Audit(r, "admin.resource.updated", "module", cfg.Module, "record_id", id, "actor_user_id", actorID)
	response.JSON(w, r, http.StatusOK, updated)
}

func (h *ResourceHandler[E]) Delete(w http.ResponseWriter, r *http.Request) {
	cfg := h.svc.Config()
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "record not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to delete record", nil)
		return
	}
	actorID, _ := actorIDFromRequest(r)
	observability.Audit(r, "admin.resource.deleted", "module", cfg.Module, "record_id", id, "actor_user_id", actorID)
	response.JSON(w, r, http.StatusOK, map[string]any{"id": id, "status": "deleted"})
}
