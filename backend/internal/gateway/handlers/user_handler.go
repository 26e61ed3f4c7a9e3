package handlers

import (
	"net/http"

	"schoolhub/backend/internal/gateway/util"
	"schoolhub/backend/internal/user"
)

// UserHandler serves the authenticated profile endpoints.
type UserHandler struct {
	Users *user.Service
}

// RESTChangePasswordRequest mirrors the input for /users/change-password.
type RESTChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// GetProfile handles GET /users/profile.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	u, err := h.Users.GetProfile(r.Context(), principal.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    u,
	})
}

// UpdateProfile handles PUT /users/profile. Sensitive fields (role,
// password) are not part of the update shape and are dropped silently;
// the request still succeeds.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	var upd user.ProfileUpdate
	if err := decodeBody(w, r, &upd); err != nil {
		return
	}

	u, err := h.Users.UpdateProfile(r.Context(), principal.ID, &upd)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    u,
	})
}

// ChangePassword handles POST /users/change-password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	var reqBody RESTChangePasswordRequest
	if err := decodeBody(w, r, &reqBody); err != nil {
		return
	}

	if err := h.Users.ChangePassword(r.Context(), principal.ID, reqBody.OldPassword, reqBody.NewPassword); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password changed successfully",
	})
}
