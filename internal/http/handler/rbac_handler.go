package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/restofleet/pos-admin-api/internal/domain"
	"github.com/restofleet/pos-admin-api/internal/http/response"
	"github.com/restofleet/pos-admin-api/internal/observability"
	"github.com/restofleet/pos-admin-api/internal/repository"
	"github.com/restofleet/pos-admin-api/internal/service"
)

// RBACHandler covers the role operations the generic resource routes cannot:
// replacing a role's permission set. Held-permission caches and the cached
// roles listings are dropped so the change takes effect on the next request.
type RBACHandler struct {
	rbacRepo  repository.RBACRepository
	resolver  service.PermissionResolver
	roleLists *service.ResourceService[domain.Role]
}

func NewRBACHandler(rbacRepo repository.RBACRepository, resolver service.PermissionResolver, roleLists *service.ResourceService[domain.Role]) *RBACHandler {
	return &RBACHandler{rbacRepo: rbacRepo, resolver: resolver, roleLists: roleLists}
}

func (h *RBACHandler) SetRolePermissions(w http.ResponseWriter, r *http.Request) {
	roleID, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid role id", nil)
		return
	}
	var body struct {
		PermissionIDs []uint `json:"permissionIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	if err := h.rbacRepo.ReplaceRolePermissions(r.Context(), roleID, body.PermissionIDs); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "role not found", nil)
		case errors.Is(err, repository.ErrUnknownPermission):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to set role permissions", nil)
		}
		return
	}
	if err := h.resolver.InvalidateAll(r.Context()); err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to refresh permission cache", nil)
		return
	}
	h.roleLists.InvalidateLists(r.Context())

	actorID, _ := actorIDFromRequest(r)
	observability.Audit(r, "admin.role.permissions.updated", "role_id", roleID, "permission_ids", body.PermissionIDs, "actor_user_id", actorID)
	response.JSON(w, r, http.StatusOK, map[string]any{"roleId": roleID, "permissionIds": body.PermissionIDs})
}
