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
	"github.com/restofleet/pos-admin-api/internal/security"
)

const minPasswordLength = 8

// UserHandler covers the credential operation the generic user routes cannot:
// setting a user's password. The hash lives apart from the profile, so this
// never rides through the upsert payload.
type UserHandler struct {
	users repository.UserRepository
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	userID, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid user id", nil)
		return
	}
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if len(body.Password) < minPasswordLength {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "password must be at least 8 characters", nil)
		return
	}

	if _, err := h.users.FindByID(r.Context(), userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load user", nil)
		return
	}

	hash, err := security.HashPassword(body.Password)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to hash password", nil)
		return
	}
	if err := h.users.SaveCredential(r.Context(), &domain.Credential{UserID: userID, PasswordHash: hash}); err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to save credential", nil)
		return
	}

	actorID, _ := actorIDFromRequest(r)
	observability.Audit(r, "admin.user.password.updated", "target_user_id", userID, "actor_user_id", actorID)
	response.JSON(w, r, http.StatusOK, map[string]any{"userId": userID, "status": "updated"})
}
