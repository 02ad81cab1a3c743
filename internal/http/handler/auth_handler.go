package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/restofleet/pos-admin-api/internal/http/response"
	"github.com/restofleet/pos-admin-api/internal/observability"
	"github.com/restofleet/pos-admin-api/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login exchanges credentials for an access token and the actor's profile.
// All credential failures share one message so callers cannot probe which
// emails exist.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	email := strings.TrimSpace(body.Email)
	if email == "" || body.Password == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "email and password are required", nil)
		return
	}

	result, err := h.auth.Login(r.Context(), email, body.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid email or password", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "login failed", nil)
		return
	}
	observability.Audit(r, "auth.login", "user_id", result.User.ID, "email", result.User.Email)
	response.JSON(w, r, http.StatusOK, result)
}

// Me returns the authenticated actor's profile with its held permissions, the
// payload the console gates its menus and toolbars from.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actorID, err := actorIDFromRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid actor", nil)
		return
	}
	profile, err := h.auth.Me(r.Context(), actorID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load profile", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, profile)
}
