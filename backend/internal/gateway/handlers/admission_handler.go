package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"schoolhub/backend/internal/admission"
	"schoolhub/backend/internal/gateway/util"
)

// AdmissionHandler serves the admission application endpoints.
type AdmissionHandler struct {
	Admissions *admission.Service
}

// RESTStatusUpdateRequest mirrors the input for /admissions/{id}/status.
// AdminRemarks is a pointer so an omitted field leaves stored remarks
// untouched.
type RESTStatusUpdateRequest struct {
	Status       string  `json:"status"`
	AdminRemarks *string `json:"adminRemarks"`
}

// Create handles POST /admissions.
func (h *AdmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	var reqBody admission.CreateRequest
	if err := decodeBody(w, r, &reqBody); err != nil {
		return
	}

	a, err := h.Admissions.Create(r.Context(), principal.ID, &reqBody)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"admission": a,
	})
}

// ListAll handles GET /admissions (admin only, gated by the router).
func (h *AdmissionHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	admissions, err := h.Admissions.ListAll(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"admissions": admissions,
	})
}

// ListMine handles GET /admissions/my-applications.
func (h *AdmissionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	admissions, err := h.Admissions.ListByUser(r.Context(), principal.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"admissions": admissions,
	})
}

// UpdateStatus handles PUT /admissions/{id}/status (admin only).
func (h *AdmissionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	admissionID := chi.URLParam(r, "id")

	var reqBody RESTStatusUpdateRequest
	if err := decodeBody(w, r, &reqBody); err != nil {
		return
	}

	a, err := h.Admissions.UpdateStatus(r.Context(), admissionID, principal.ID, reqBody.Status, reqBody.AdminRemarks)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"admission": a,
	})
}
